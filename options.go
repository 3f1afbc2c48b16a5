package tastematch

import (
	"github.com/gkoduol/tastematch/pooling"
	"github.com/gkoduol/tastematch/rating"
)

type options struct {
	strategy      pooling.Strategy
	blend         rating.BlendWeights
	likeThreshold int
	logger        *Logger
	metrics       MetricsCollector
}

// Option configures Recommender behavior.
type Option func(*options)

// WithStrategy selects the group-vector aggregation strategy.
//
// If nil is passed, pooling.Default (centroid) is used.
func WithStrategy(s pooling.Strategy) Option {
	return func(o *options) {
		if s == nil {
			s = pooling.Default
		}
		o.strategy = s
	}
}

// WithBlend sets the rating-path consensus blend. The zero value falls
// back to rating.Balanced.
func WithBlend(w rating.BlendWeights) Option {
	return func(o *options) {
		o.blend = w
	}
}

// WithLikeThreshold sets the minimum rating that counts as a like for the
// similarity path. Values outside 1..5 are clamped.
func WithLikeThreshold(threshold int) Option {
	return func(o *options) {
		if threshold < 1 {
			threshold = 1
		}
		if threshold > 5 {
			threshold = 5
		}
		o.likeThreshold = threshold
	}
}

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics sets the metrics collector. Nil disables collection.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}
