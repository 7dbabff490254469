package vgmdb

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"vgmhub/internal/cache"
)

// LoadOptions carries the per-request cache knobs the API exposes.
type LoadOptions struct {
	// NoCache bypasses both the cache read and the write-through.
	NoCache bool
	// TTL overrides the cache's default expiry for the write-through.
	TTL time.Duration
}

// Service is the read-through path: cache first, then fetch + extract
// with a write-through. Concurrent loads of the same catalog may both
// fetch; the last write wins, which is fine at personal-catalog scale.
type Service struct {
	Fetcher *Fetcher
	Cache   *cache.Cache
}

func NewService(f *Fetcher, c *cache.Cache) *Service {
	return &Service{Fetcher: f, Cache: c}
}

// Load returns the album record for catalog and whether it came from
// the cache. A cache hit skips fetching entirely; on a miss the freshly
// extracted fields are written back before returning.
func (s *Service) Load(ctx context.Context, catalog string, opts LoadOptions) (AlbumRecord, bool) {
	if !opts.NoCache {
		if pull, ok := s.Cache.Read(ctx, catalog); ok {
			log.Infof("[vgmdb] returned cached values for %s", catalog)
			return cachedRecord{pull: pull}, true
		}
	} else {
		log.Infof("[vgmdb] skipping cache for %s", catalog)
	}

	doc := s.Fetcher.Fetch(ctx, catalog)
	rec := NewRecord(catalog, doc)

	if !opts.NoCache {
		// best effort; Write logs its own failures
		_ = s.Cache.Write(ctx, catalog, rec.RawPull(), opts.TTL)
	}
	return rec, false
}
