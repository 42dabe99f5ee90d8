package cache

import (
	"testing"
	"time"
)

func TestResponseKey(t *testing.T) {
	a := ResponseKey("texto do ofício", []string{"EXTRATOS", "SALDOS"})
	b := ResponseKey("texto do ofício", []string{"EXTRATOS", "SALDOS"})
	if a != b {
		t.Error("expected deterministic key")
	}

	if a == ResponseKey("outro texto", []string{"EXTRATOS", "SALDOS"}) {
		t.Error("expected different key for different document")
	}
	if a == ResponseKey("texto do ofício", []string{"EXTRATOS"}) {
		t.Error("expected different key for different candidate set")
	}
	if len(a) < len("sigilo:v1:")+64 {
		t.Errorf("unexpected key shape: %q", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set("k", []byte("valor"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "valor" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	_ = c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}

	key := ResponseKey("doc", []string{"A"})
	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(key)
	if !ok || string(got) != "payload" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("expected miss after clear")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}

	_ = c.Set("k", []byte("v"), -time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	memory := NewMemoryCache(time.Minute)
	disk, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	layered := NewLayeredCache(memory, disk, time.Minute)

	// Seed only the disk layer, as after a process restart
	if err := disk.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := layered.Get("k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if _, ok := memory.Get("k"); !ok {
		t.Error("expected disk hit promoted to memory")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	memory := NewMemoryCache(time.Minute)
	disk, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache: %v", err)
	}
	layered := NewLayeredCache(memory, disk, time.Minute)

	if err := layered.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := memory.Get("k"); !ok {
		t.Error("expected entry in memory layer")
	}
	if _, ok := disk.Get("k"); !ok {
		t.Error("expected entry in disk layer")
	}
}
