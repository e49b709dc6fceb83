package usersearch

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/usersearch/resource"
)

// Default scoring parameters.
const (
	DefaultFieldWeight     = 5
	DefaultExactMatchBonus = 25

	DefaultRefreshInterval = time.Minute
)

// scoring holds every option that changes search results. It is part of the
// IndexCache key, so it must stay comparable.
type scoring struct {
	fieldWeight     int
	exactMatchBonus int
	minScore        int
	hasMinScore     bool
	limit           int
}

type options struct {
	scoring

	metricsCollector MetricsCollector
	logger           *Logger

	// Live only.
	refreshInterval time.Duration
	retryLimit      rate.Limit
	retryBurst      int
	resources       *resource.Controller
}

// Option configures Build, BuildCached and NewLive.
type Option func(*options)

// WithFieldWeight sets the per-position bonus of field priority. With n fields,
// a match in field i (0-based) earns (n-1-i)*weight. Zero disables field
// priority, negative values are treated as zero.
func WithFieldWeight(weight int) Option {
	return func(o *options) {
		if weight < 0 {
			weight = 0
		}
		o.fieldWeight = weight
	}
}

// WithExactMatchBonus sets the bonus for a field whose whole value is matched
// by the query (ignoring case).
func WithExactMatchBonus(bonus int) Option {
	return func(o *options) {
		o.exactMatchBonus = bonus
	}
}

// WithMinScore drops matches scoring below minScore.
func WithMinScore(minScore int) Option {
	return func(o *options) {
		o.minScore = minScore
		o.hasMinScore = true
	}
}

// WithLimit caps the number of results per search. Zero means unlimited.
func WithLimit(limit int) Option {
	return func(o *options) {
		if limit < 0 {
			limit = 0
		}
		o.limit = limit
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &usersearch.BasicMetricsCollector{}
//	idx, _ := usersearch.Build(users, fields, usersearch.WithMetricsCollector(metrics))
//	// ... use idx ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := usersearch.NewJSONLogger(slog.LevelInfo)
//	idx, _ := usersearch.Build(users, fields, usersearch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithRefreshInterval sets how often Live.Run reloads the corpus.
func WithRefreshInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.refreshInterval = d
		}
	}
}

// WithRetryLimit paces the retries of failed refreshes in Live.Run.
func WithRetryLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		if burst < 1 {
			burst = 1
		}
		o.retryLimit = limit
		o.retryBurst = burst
	}
}

// WithResourceController shares memory and build budgets with other caches
// and live indexes.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		scoring: scoring{
			fieldWeight:     DefaultFieldWeight,
			exactMatchBonus: DefaultExactMatchBonus,
		},
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		refreshInterval:  DefaultRefreshInterval,
		retryLimit:       rate.Every(time.Second),
		retryBurst:       1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
