package cache

import "time"

// LayeredCache reads memory first, falls back to disk and promotes hits
type LayeredCache struct {
	memory Cache
	disk   Cache
	ttl    time.Duration
}

// NewLayeredCache combines a memory and a disk cache
func NewLayeredCache(memory, disk Cache, ttl time.Duration) *LayeredCache {
	return &LayeredCache{memory: memory, disk: disk, ttl: ttl}
}

func (l *LayeredCache) Get(key string) ([]byte, bool) {
	if data, ok := l.memory.Get(key); ok {
		return data, true
	}
	data, ok := l.disk.Get(key)
	if !ok {
		return nil, false
	}
	_ = l.memory.Set(key, data, l.ttl)
	return data, true
}

func (l *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, value, ttl)
}

func (l *LayeredCache) Delete(key string) error {
	if err := l.memory.Delete(key); err != nil {
		return err
	}
	return l.disk.Delete(key)
}

func (l *LayeredCache) Clear() error {
	if err := l.memory.Clear(); err != nil {
		return err
	}
	return l.disk.Clear()
}
