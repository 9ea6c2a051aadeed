package engine

import (
	"errors"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/classify"
	"bean-transformer/internal/construct"
	"bean-transformer/internal/descriptor"
	"bean-transformer/internal/populate"
	"bean-transformer/options"
	"bean-transformer/primitive"
)

// Validator checks a destination value after construction.
type Validator interface {
	Validate(v any) error
}

// Engine runs transformations. It holds no per-call state and is safe for
// concurrent use as long as the settings passed to each call are not mutated
// during the call.
type Engine struct {
	provider   *descriptor.Provider
	cache      *cache.Cache
	classifier *classify.Classifier
	injector   *construct.Injector
	logger     *zap.Logger
	validator  Validator
}

// New creates an engine. logger and validator may be nil.
func New(provider *descriptor.Provider, c *cache.Cache, logger *zap.Logger, validator Validator) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		provider:   provider,
		cache:      c,
		classifier: classify.New(provider, c),
		injector:   construct.New(provider, c, logger),
		logger:     logger,
		validator:  validator,
	}
}

// Transform builds a value of type dst from source.
func (e *Engine) Transform(source any, dst reflect.Type, settings *options.Settings) (reflect.Value, error) {
	if _, err := sourceValue(source); err != nil {
		return reflect.Value{}, err
	}

	if dst == nil {
		return reflect.Value{}, diagnostic.NewIllegalArgument("destinationType", "must not be nil")
	}

	c := e.newCall(settings)

	out, err := c.assembler.Populate(reflect.ValueOf(source), dst, "")
	if err != nil {
		return reflect.Value{}, err
	}

	if err := c.validate(out); err != nil {
		return reflect.Value{}, err
	}

	return out, nil
}

// TransformInto populates the settable fields of the struct dst points to.
// Skipped fields keep their current value.
func (e *Engine) TransformInto(source any, dst any, settings *options.Settings) error {
	src, err := sourceValue(source)
	if err != nil {
		return err
	}

	ptr := reflect.ValueOf(dst)
	if !ptr.IsValid() || ptr.Kind() != reflect.Pointer || ptr.IsNil() ||
		ptr.Elem().Kind() != reflect.Struct || primitive.IsPrimitive(ptr.Elem().Type()) {
		return diagnostic.NewIllegalArgument("destination", "must be a non-nil pointer to a struct")
	}

	c := e.newCall(settings)
	d := e.provider.Describe(ptr.Type().Elem())

	if err := e.injector.Setters(ptr, d.Fields, c.resolver(src, "")); err != nil {
		return err
	}

	return c.validate(ptr)
}

// sourceValue rejects nil sources, typed nil pointers included, and
// dereferences pointers.
func sourceValue(source any) (reflect.Value, error) {
	v := reflect.ValueOf(source)
	for v.IsValid() && v.Kind() == reflect.Pointer && !primitive.IsPrimitive(v.Type()) {
		if v.IsNil() {
			break
		}

		v = v.Elem()
	}

	if !v.IsValid() || isNil(v) {
		return reflect.Value{}, diagnostic.NewIllegalArgument("source", "must not be nil")
	}

	return v, nil
}

// Converter returns the primitive converter of the category mask.
func (e *Engine) Converter(categories primitive.CategoryEnum) *primitive.Converter {
	key := cache.Key(cache.Converter, strconv.Itoa(int(categories)))
	if conv, ok := cache.Get[*primitive.Converter](e.cache, key); ok {
		return conv
	}

	conv := primitive.NewConverter(categories)
	e.cache.Put(key, conv)

	return conv
}

// call is the state of a single transformation.
type call struct {
	*Engine

	settings  *options.Settings
	converter *primitive.Converter
	assembler *populate.Assembler
}

func (e *Engine) newCall(settings *options.Settings) *call {
	if settings == nil {
		settings = options.NewSettings()
	}

	c := &call{
		Engine:    e,
		settings:  settings,
		converter: e.Converter(settings.Categories),
	}

	c.assembler = &populate.Assembler{Object: c.object}
	if settings.Flag(options.FlagPrimitiveTypeConversion) {
		c.assembler.Converter = c.converter
	}

	return c
}

// object builds the struct type dst from the struct src according to the
// class type of dst.
func (c *call) object(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	ct, err := c.classifier.Classify(dst)
	if err != nil {
		return reflect.Value{}, err
	}

	if ce := c.logger.Check(zap.DebugLevel, "destination classified"); ce != nil {
		ce.Write(
			zap.String("path", path),
			zap.Stringer("type", dst),
			zap.Stringer("class", ct),
		)
	}

	d := c.provider.Describe(dst)
	resolve := c.resolver(src, path)

	switch ct {
	case classify.Builder:
		return c.injector.Builder(d, resolve)

	case classify.Immutable, classify.Mixed:
		ctor, _ := c.provider.Constructors.Lookup(dst)

		ptr, err := c.injector.Constructor(ctor, src.Type(), resolve)
		if err != nil || ct == classify.Immutable {
			return ptr, err
		}

		return ptr, c.injector.Setters(ptr, d.Fields, resolve)

	default:
		ptr := reflect.New(dst)

		return ptr, c.injector.Setters(ptr, d.Fields, resolve)
	}
}

func (c *call) resolver(src reflect.Value, breadcrumb string) construct.ResolveFunc {
	return func(f *descriptor.Field) (reflect.Value, bool, error) {
		return c.fieldValue(src, f, breadcrumb)
	}
}

func (c *call) validate(out reflect.Value) error {
	if !c.settings.Flag(options.FlagValidation) || c.validator == nil {
		return nil
	}

	if out.Kind() != reflect.Pointer && out.CanAddr() {
		out = out.Addr()
	}

	err := c.validator.Validate(out.Interface())
	if err == nil {
		return nil
	}

	var beanErr *diagnostic.InvalidBeanError
	if errors.As(err, &beanErr) {
		return err
	}

	return diagnostic.NewInvalidBean(err)
}
