// Package cache stores semantic-validation responses so that duplicate
// documents in a batch (reiterations excluded, resubmissions are common)
// do not trigger repeated paid validator calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a byte-value cache with per-entry TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResponseKey derives the cache key for a validation call: the document
// text plus the ordered candidate ids, so a changed candidate set never
// reuses a stale verdict.
func ResponseKey(documentText string, candidateIDs []string) string {
	h := sha256.New()
	h.Write([]byte(documentText))
	h.Write([]byte("\x00"))
	h.Write([]byte(strings.Join(candidateIDs, ",")))
	return "sigilo:v1:" + hex.EncodeToString(h.Sum(nil))
}
