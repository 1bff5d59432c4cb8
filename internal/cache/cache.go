package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yksassistant/hakem/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "hakem:v1:"

// ExtractionKey identifies one extraction: the same image read by the same
// provider and model yields the same key
func ExtractionKey(image []byte, provider, modelName string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(modelName))
	h.Write([]byte{0})
	h.Write(image)
	return keyPrefix + "extract:" + hex.EncodeToString(h.Sum(nil))
}

// GetJSON decodes a cached value into v; a corrupt entry counts as a miss
func GetJSON(c Cache, key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON encodes v and stores it
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}

// New builds the cache described by cfg: memory over disk when a directory is
// set, memory only otherwise, and a no-op cache when disabled
func New(cfg model.CacheConfig) Cache {
	switch {
	case !cfg.Enabled:
		return NopCache{}
	case cfg.Dir == "":
		return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	default:
		return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	}
}

// NopCache never stores anything
type NopCache struct{}

func (NopCache) Get(string) ([]byte, bool) { return nil, false }
func (NopCache) Set(string, []byte, time.Duration) error { return nil }
func (NopCache) Delete(string) error { return nil }
func (NopCache) Clear() error { return nil }
