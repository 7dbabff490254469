package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"vgmhub/pkg/models"
)

const DefaultTTL = 30 * time.Minute

// Cache stores raw pulls in redis under one key per catalog identifier.
// A broken or unreachable backend is never fatal: reads degrade to
// misses and writes report an error the caller may ignore.
type Cache struct {
	rdb        *redis.Client
	disabled   bool
	defaultTTL time.Duration
}

// New connects to the redis backend at addr. An empty addr or
// disabled=true yields a no-op cache: every read is a miss, every
// write succeeds trivially.
func New(addr string, disabled bool, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if disabled || addr == "" {
		return &Cache{disabled: true}
	}
	return &Cache{
		rdb:        redis.NewClient(&redis.Options{Addr: addr}),
		defaultTTL: ttl,
	}
}

func (c *Cache) Disabled() bool {
	return c == nil || c.disabled
}

func key(catalog string) string {
	return "game:" + catalog
}

// Read returns the cached raw pull for catalog, if any. Backend errors
// are logged and treated as misses.
func (c *Cache) Read(ctx context.Context, catalog string) (models.RawPull, bool) {
	if c.Disabled() {
		return models.RawPull{}, false
	}

	b, err := c.rdb.Get(ctx, key(catalog)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("[cache] read %s: %v, skipping cache", catalog, err)
		}
		return models.RawPull{}, false
	}

	var pull models.RawPull
	if err := json.Unmarshal(b, &pull); err != nil {
		log.Errorf("[cache] decode %s: %v, skipping cache", catalog, err)
		return models.RawPull{}, false
	}
	return pull, true
}

// Write stores pull under the catalog key with the given TTL (the
// cache default when ttl <= 0). Errors are logged and returned; they
// never abort the request that produced the pull.
func (c *Cache) Write(ctx context.Context, catalog string, pull models.RawPull, ttl time.Duration) error {
	if c.Disabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	b, err := json.Marshal(pull)
	if err != nil {
		return fmt.Errorf("encode %s: %w", catalog, err)
	}
	if err := c.rdb.Set(ctx, key(catalog), b, ttl).Err(); err != nil {
		log.Errorf("[cache] write %s: %v", catalog, err)
		return fmt.Errorf("write %s: %w", catalog, err)
	}
	return nil
}
