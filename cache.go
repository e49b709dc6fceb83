package usersearch

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/usersearch/internal/cache"
	"github.com/hupe1980/usersearch/internal/hash"
	"github.com/hupe1980/usersearch/model"
	"github.com/hupe1980/usersearch/resource"
)

// DefaultCacheCapacity is the IndexCache capacity used when none is given.
const DefaultCacheCapacity = 64 << 20

// cacheKey identifies an index by record type, corpus content and scoring.
type cacheKey struct {
	typ     reflect.Type
	corpus  uint64
	scoring scoring
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%v/%016x/%+v", k.typ, k.corpus, k.scoring)
}

// IndexCache reuses built indexes across calls with identical corpora.
//
// Entries are keyed by a content hash of the records (IDs and indexed field
// values, in order), the field list and the scoring options, so a changed
// corpus can never be served from a stale entry. Concurrent builds of the same
// key are deduplicated. It is safe for concurrent use.
type IndexCache struct {
	lru   *cache.LRU[cacheKey, any]
	group singleflight.Group
	rc    *resource.Controller
}

// NewIndexCache creates a cache holding up to capacity bytes of indexes.
// If rc is non-nil, cached indexes are also charged against its memory
// budget and builds take one of its build slots.
func NewIndexCache(capacity int64, rc *resource.Controller) *IndexCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &IndexCache{
		lru: cache.NewLRU[cacheKey, any](capacity, rc),
		rc:  rc,
	}
}

// BuildCached returns an index over records, reusing a cached index built
// from content-equal records, fields and scoring options. Returned matches
// always reference the records passed to this call.
func BuildCached[R model.Record](c *IndexCache, records []R, fields []string, optFns ...Option) (*Index[R], error) {
	o := applyOptions(optFns)
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	key := cacheKey{
		typ:     reflect.TypeFor[R](),
		corpus:  hash.Corpus(records, fields),
		scoring: o.scoring,
	}
	ctx := context.Background()

	if v, ok := c.lru.Get(key); ok {
		if ix, ok := v.(*Index[R]); ok {
			o.metricsCollector.RecordCache(true)
			o.logger.LogCache(ctx, key.corpus, true)
			return ix.withRecords(records, o), nil
		}
	}
	o.metricsCollector.RecordCache(false)
	o.logger.LogCache(ctx, key.corpus, false)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A build for this key may have completed since the lookup above.
		if v, ok := c.lru.Peek(key); ok {
			if ix, ok := v.(*Index[R]); ok {
				return ix, nil
			}
		}

		if err := c.rc.AcquireBuild(ctx); err != nil {
			return nil, err
		}
		defer c.rc.ReleaseBuild()

		start := time.Now()
		ix, err := build(records, fields, o)
		o.metricsCollector.RecordBuild(len(records), time.Since(start), err)
		o.logger.LogBuild(ctx, len(records), len(fields), err)
		if err != nil {
			return nil, err
		}

		c.lru.Set(key, ix, ix.SizeInBytes())
		return ix, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Index[R]).withRecords(records, o), nil
}

// InvalidateCorpus drops every entry built from the given corpus hash
// (see Index.Corpus) and returns how many were dropped.
func (c *IndexCache) InvalidateCorpus(corpus uint64) int {
	return c.lru.Invalidate(func(k cacheKey) bool { return k.corpus == corpus })
}

// Purge drops every entry.
func (c *IndexCache) Purge() {
	c.lru.Purge()
}

// Len returns the number of cached indexes.
func (c *IndexCache) Len() int { return c.lru.Len() }

// Size returns the estimated bytes held by cached indexes.
func (c *IndexCache) Size() int64 { return c.lru.Size() }

// Stats returns cache hit and miss counts.
func (c *IndexCache) Stats() (hits, misses int64) { return c.lru.Stats() }
