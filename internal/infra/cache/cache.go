package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"imgpdf/internal/domain"
	log "imgpdf/internal/infra/logging"
)

const keyPrefix = "convcache:"

// ResultCache stores finished conversions in Redis, keyed by upload content.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a cache backed by rdb. A nil client yields a cache that always misses.
func New(rdb *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Key derives the cache key from the upload's extension and bytes. The
// extension is part of the key because it decides the conversion direction.
func Key(filename string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(filepath.Ext(filename))))
	h.Write([]byte{0})
	h.Write(data)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached conversion or nil on a miss. Redis failures are
// logged and reported as misses.
func (c *ResultCache) Get(ctx context.Context, key string) *domain.Conversion {
	if c == nil || c.rdb == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		log.Warn("Redis read failed", "error", err)
		return nil
	}

	var conv domain.Conversion
	if err := json.Unmarshal(raw, &conv); err != nil {
		log.Warn("Cached conversion is corrupt", "key", key, "error", err)
		return nil
	}
	log.Info("Conversion cache hit", "key", key)
	return &conv
}

// Set stores conv under key for the configured TTL.
func (c *ResultCache) Set(ctx context.Context, key string, conv *domain.Conversion) {
	if c == nil || c.rdb == nil || conv == nil {
		return
	}
	raw, err := json.Marshal(conv)
	if err != nil {
		log.Warn("Encode conversion for cache failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn("Redis write failed", "error", err)
	}
}
