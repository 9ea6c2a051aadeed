package transformer

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"bean-transformer/primitive"
)

// Option configures a Transformer at creation.
type Option func(*config)

type config struct {
	logger       *zap.Logger
	cache        *Cache
	validator    Validator
	registerer   prometheus.Registerer
	categories   primitive.CategoryEnum
	hasValidator bool
}

// WithLogger sets the logger. Debug level events describe classification,
// field resolution, constructor fallbacks and cache invalidation.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithCache shares c between transformers. Metrics configured with
// WithMetrics are not attached to a shared cache.
func WithCache(c *Cache) Option {
	return func(cfg *config) {
		cfg.cache = c
	}
}

// WithValidator replaces the validator run when validation is enabled. A nil
// validator disables validation entirely.
func WithValidator(v Validator) Option {
	return func(c *config) {
		c.validator = v
		c.hasValidator = true
	}
}

// WithMetrics registers the cache hit, miss and invalidation counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}

// WithConversionCategories restricts the primitive conversions to the given
// categories. Reset restores this mask.
func WithConversionCategories(categories primitive.CategoryEnum) Option {
	return func(c *config) {
		c.categories = categories
	}
}
