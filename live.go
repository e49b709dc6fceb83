package usersearch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/usersearch/internal/hash"
	"github.com/hupe1980/usersearch/model"
)

// Source loads the current corpus from a user directory.
type Source[R model.Record] interface {
	Load(ctx context.Context) ([]R, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[R model.Record] func(ctx context.Context) ([]R, error)

// Load implements Source.
func (f SourceFunc[R]) Load(ctx context.Context) ([]R, error) { return f(ctx) }

// Live serves searches from the most recent corpus of a Source.
//
// Refresh reloads the corpus and swaps in a new index only if its content
// changed. A failed refresh keeps serving the previous index. Search is safe
// to call concurrently with Refresh and Run.
type Live[R model.Record] struct {
	src     Source[R]
	fields  []string
	opts    options
	limiter *rate.Limiter

	current atomic.Pointer[Index[R]]

	mu        sync.Mutex // serializes refreshes
	refreshed time.Time
	lastErr   error
}

// NewLive creates a Live index over src. The corpus is not loaded until the
// first Refresh or Run.
func NewLive[R model.Record](src Source[R], fields []string, optFns ...Option) (*Live[R], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	o := applyOptions(optFns)
	return &Live[R]{
		src:     src,
		fields:  append([]string(nil), fields...),
		opts:    o,
		limiter: rate.NewLimiter(o.retryLimit, o.retryBurst),
	}, nil
}

// Index returns the index currently served, or nil before the first
// successful refresh.
func (l *Live[R]) Index() *Index[R] {
	return l.current.Load()
}

// Search queries the current index. Before the first successful refresh it
// returns no results.
func (l *Live[R]) Search(query string) []Match[R] {
	ix := l.current.Load()
	if ix == nil {
		return nil
	}
	return ix.Search(query)
}

// LastRefresh returns the time of the last refresh attempt and its error.
func (l *Live[R]) LastRefresh() (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshed, l.lastErr
}

// Refresh loads the corpus and swaps in a new index if the content changed.
// It reports whether the served index changed.
func (l *Live[R]) Refresh(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	records, changed, err := l.refresh(ctx)
	l.refreshed = start
	l.lastErr = err

	l.opts.metricsCollector.RecordRefresh(changed, time.Since(start), err)
	l.opts.logger.LogRefresh(ctx, records, changed, err)

	return changed, err
}

func (l *Live[R]) refresh(ctx context.Context) (int, bool, error) {
	records, err := l.src.Load(ctx)
	if err != nil {
		return 0, false, err
	}

	corpus := hash.Corpus(records, l.fields)
	if cur := l.current.Load(); cur != nil && cur.Corpus() == corpus {
		// Same content; still serve the freshest record values.
		l.current.Store(cur.withRecords(records, l.opts))
		return len(records), false, nil
	}

	if err := l.opts.resources.AcquireBuild(ctx); err != nil {
		return len(records), false, err
	}
	defer l.opts.resources.ReleaseBuild()

	start := time.Now()
	ix, err := build(records, l.fields, l.opts)
	l.opts.metricsCollector.RecordBuild(len(records), time.Since(start), err)
	if err != nil {
		return len(records), false, err
	}

	l.current.Store(ix)
	return len(records), true, nil
}

// Run refreshes the corpus immediately and then on every refresh interval
// until ctx is done. Failed refreshes are retried without waiting for the
// next interval, paced by the retry limiter. Run returns ctx's error.
func (l *Live[R]) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		_, err := l.Refresh(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			timer.Reset(l.opts.refreshInterval)
			continue
		}

		if err := l.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// The limiter cannot grant a token (zero limit): fall back to
			// the regular interval.
			timer.Reset(l.opts.refreshInterval)
			continue
		}
		timer.Reset(0)
	}
}
