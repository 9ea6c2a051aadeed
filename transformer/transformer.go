package transformer

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/descriptor"
	"bean-transformer/internal/engine"
	"bean-transformer/internal/populate"
	"bean-transformer/options"
	"bean-transformer/primitive"
	"bean-transformer/validation"
)

type (
	// Cache stores the reflective lookups of transformers. Safe for concurrent use.
	Cache = cache.Cache
	// Validator checks destinations when validation is enabled.
	Validator = engine.Validator
	// HasBuilder marks a struct built through a builder. NewBuilder returns a
	// value, or a pointer to a value, exposing setters and a Build method
	// returning the struct or a pointer to it, optionally with an error.
	HasBuilder = descriptor.HasBuilder
)

// ErrCycle is returned when the source graph refers back to a value being
// transformed.
var ErrCycle = populate.ErrCycle

// NewCache returns an empty cache to share between transformers.
func NewCache() *Cache {
	return cache.New(nil)
}

// Transformer transforms values between struct types.
//
// Configuration methods may be called concurrently with transformations: each
// transformation runs against the settings current when it started.
type Transformer struct {
	engine     *engine.Engine
	provider   *descriptor.Provider
	cache      *cache.Cache
	logger     *zap.Logger
	categories primitive.CategoryEnum

	mu       sync.Mutex // serializes configuration changes
	errs     []error
	settings atomic.Pointer[options.Settings]
}

// New creates a transformer with default settings: primitive conversion and
// validation disabled, missing fields rejected, nil primitives defaulted.
func New(opts ...Option) *Transformer {
	cfg := &config{categories: primitive.CategoryAll}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.cache == nil {
		var metrics *cache.Metrics
		if cfg.registerer != nil {
			metrics = cache.NewMetrics(cfg.registerer)
			metrics.Init()
		}

		cfg.cache = cache.New(metrics)
	}

	if !cfg.hasValidator {
		cfg.validator = validation.New()
	}

	provider := descriptor.NewProvider()

	t := &Transformer{
		engine:     engine.New(provider, cfg.cache, cfg.logger, cfg.validator),
		provider:   provider,
		cache:      cfg.cache,
		logger:     cfg.logger,
		categories: cfg.categories,
	}

	s := options.NewSettings()
	s.Categories = cfg.categories
	t.settings.Store(s)

	return t
}

// Transform builds a value of type dst from source. dst may be a struct type
// or a pointer to one; the result has type dst.
func (t *Transformer) Transform(source any, dst reflect.Type) (any, error) {
	if err := t.Err(); err != nil {
		return nil, err
	}

	out, err := t.engine.Transform(source, dst, t.settings.Load())
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// TransformInto populates the struct dst points to from source. Fields
// without a setter and skipped fields keep their value.
func (t *Transformer) TransformInto(source, dst any) error {
	if err := t.Err(); err != nil {
		return err
	}

	return t.engine.TransformInto(source, dst, t.settings.Load())
}

// To builds a T from source with t.
func To[T any](t *Transformer, source any) (T, error) {
	var zero T

	out, err := t.Transform(source, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	res, ok := out.(T)
	if !ok {
		return zero, &diagnostic.TypeConversionError{
			From:    reflect.TypeOf(out),
			To:      reflect.TypeFor[T](),
			Message: "unexpected transformation result",
		}
	}

	return res, nil
}

// Convert converts a primitive value to dst with the conversion categories of
// the current settings.
func (t *Transformer) Convert(value any, dst reflect.Type) (any, error) {
	return t.Converter().Convert(value, dst)
}

// Converter returns the primitive converter of the current settings.
func (t *Transformer) Converter() *primitive.Converter {
	return t.engine.Converter(t.settings.Load().Categories)
}

// Settings returns a copy of the current settings.
func (t *Transformer) Settings() *options.Settings {
	return t.settings.Load().Clone()
}

// Err returns the configuration errors recorded by the fluent methods. While
// it is not nil every transformation fails with it.
func (t *Transformer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return errors.Join(t.errs...)
}

// RegisterConstructor registers fn as the all-args constructor of the struct
// it returns. names holds the logical field name of each parameter; without
// names the arguments are matched with the fields in declaration order.
func (t *Transformer) RegisterConstructor(fn any, names ...string) error {
	ctor, err := t.provider.Constructors.Register(fn, names...)
	if err != nil {
		return err
	}

	key := descriptor.TypeKey(ctor.Type)
	t.cache.Remove(cache.Key(cache.ClassType, key))
	removed := t.cache.RemoveMatchingKeyPrefix(cache.Key(cache.CanBeInjectedByConstructorParams, key, ""))
	removed += t.cache.RemoveMatchingKeyPrefix(cache.Key(cache.DestFieldName, key, ""))

	t.logger.Debug("constructor registered",
		zap.String("constructor", ctor.Signature()),
		zap.Stringer("type", ctor.Type),
		zap.Int("invalidated", removed),
	)

	return nil
}
