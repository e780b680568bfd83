package graphidx

import "golang.org/x/time/rate"

type options struct {
	logger               *Logger
	metrics              MetricsCollector
	maxConcurrentRefresh int
	refreshLimiter       *rate.Limiter
}

// Option configures Service construction.
type Option func(*options)

// WithLogger configures the logger used for apply and refresh reporting.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(c MetricsCollector) Option {
	return func(o *options) {
		if c == nil {
			c = NoopMetricsCollector{}
		}
		o.metrics = c
	}
}

// WithMaxConcurrentRefresh bounds how many indexes RefreshAll touches at
// once. Values below 1 are ignored.
func WithMaxConcurrentRefresh(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxConcurrentRefresh = n
		}
	}
}

// WithRefreshRateLimit paces RefreshAll to at most refreshesPerSec index
// refreshes per second. Zero or negative disables pacing.
func WithRefreshRateLimit(refreshesPerSec float64) Option {
	return func(o *options) {
		if refreshesPerSec > 0 {
			o.refreshLimiter = rate.NewLimiter(rate.Limit(refreshesPerSec), 1)
		}
	}
}
