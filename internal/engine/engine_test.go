package engine

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/descriptor"
	"bean-transformer/options"
	"bean-transformer/primitive"
)

type profile struct {
	Name string
	Age  *int
}

type profileDTO struct {
	Name string
	Age  int
}

type flaky struct{}

func (flaky) Code() string { panic("boom") }

type coded struct {
	Code string
}

type recordingValidator struct {
	got []any
	err error
}

func (v *recordingValidator) Validate(obj any) error {
	v.got = append(v.got, obj)
	return v.err
}

func newEngine(t *testing.T, validator Validator) *Engine {
	t.Helper()

	return New(descriptor.NewProvider(), cache.New(nil), zaptest.NewLogger(t), validator)
}

func transform[T any](t *testing.T, e *Engine, src any, s *options.Settings) (T, error) {
	t.Helper()

	var zero T

	out, err := e.Transform(src, reflect.TypeFor[T](), s)
	if err != nil {
		return zero, err
	}

	return out.Interface().(T), nil
}

func TestEngine_NilPrimitive(t *testing.T) {
	e := newEngine(t, nil)
	s := options.NewSettings()

	out, err := transform[profileDTO](t, e, profile{Name: "Ada"}, s)
	require.NoError(t, err)
	assert.Equal(t, profileDTO{Name: "Ada"}, out)

	s.SetFlag(options.FlagDefaultValueForMissingPrimitiveField, false)

	dst := profileDTO{Age: 40}
	require.NoError(t, e.TransformInto(profile{Name: "Ada"}, &dst, s))
	assert.Equal(t, profileDTO{Name: "Ada", Age: 40}, dst)

	age := 36
	require.NoError(t, e.TransformInto(profile{Name: "Ada", Age: &age}, &dst, s))
	assert.Equal(t, profileDTO{Name: "Ada", Age: 36}, dst)
}

func TestEngine_SupplierSkipsSourceRead(t *testing.T) {
	e := newEngine(t, nil)
	s := options.NewSettings()

	_, err := transform[coded](t, e, flaky{}, s)
	require.ErrorContains(t, err, "panicked: boom")

	require.NoError(t, s.AddTransformer(options.MustFieldTransformer(func() string { return "fixed" }, "code")))

	out, err := transform[coded](t, e, flaky{}, s)
	require.NoError(t, err)
	assert.Equal(t, "fixed", out.Code)
}

func TestEngine_ConversionCache(t *testing.T) {
	e := newEngine(t, nil)
	s := options.NewSettings()
	s.SetFlag(options.FlagPrimitiveTypeConversion, true)

	out, err := transform[profileDTO](t, e, map[string]any{"name": "Ada", "age": "36"}, s)
	require.NoError(t, err)
	assert.Equal(t, profileDTO{Name: "Ada", Age: 36}, out)

	key := cache.Key(cache.TransformerFunction, "string", "int", strconv.Itoa(int(primitive.CategoryAll)))
	fn, ok := cache.Get[primitive.Func](e.cache, key)
	require.True(t, ok)
	require.NotNil(t, fn)

	s.Categories = primitive.CategoryNone

	_, err = transform[profileDTO](t, e, map[string]any{"name": "Ada", "age": "36"}, s)

	var conv *diagnostic.TypeConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, "age", conv.Field)

	key = cache.Key(cache.TransformerFunction, "string", "int", strconv.Itoa(int(primitive.CategoryNone)))
	fn, ok = cache.Get[primitive.Func](e.cache, key)
	require.True(t, ok, "missing conversions are cached too")
	assert.Nil(t, fn)

	assert.Same(t, e.Converter(primitive.CategoryNone), e.Converter(primitive.CategoryNone))
}

func TestEngine_InterfaceDestination(t *testing.T) {
	e := newEngine(t, nil)

	src := coded{Code: "x"}
	out, err := e.Transform(src, reflect.TypeFor[any](), nil)
	require.NoError(t, err)
	assert.Equal(t, src, out.Interface())
}

func TestEngine_Validation(t *testing.T) {
	v := &recordingValidator{}
	e := newEngine(t, v)
	s := options.NewSettings()

	_, err := transform[coded](t, e, coded{Code: "x"}, s)
	require.NoError(t, err)
	assert.Empty(t, v.got, "validation is disabled")

	s.SetFlag(options.FlagValidation, true)

	_, err = transform[coded](t, e, coded{Code: "x"}, s)
	require.NoError(t, err)

	dst := coded{}
	require.NoError(t, e.TransformInto(coded{Code: "y"}, &dst, s))

	require.Len(t, v.got, 2)
	assert.Equal(t, &coded{Code: "x"}, v.got[0])
	assert.Same(t, &dst, v.got[1])

	v.err = assert.AnError
	_, err = transform[coded](t, e, coded{Code: "x"}, s)

	var invalid *diagnostic.InvalidBeanError
	require.ErrorAs(t, err, &invalid)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEngine_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := New(descriptor.NewProvider(), cache.New(nil), zap.New(core), nil)

	s := options.NewSettings()
	s.Skip("age")

	_, err := transform[profileDTO](t, e, profile{Name: "Ada"}, s)
	require.NoError(t, err)

	skipped := logs.FilterMessage("field skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "age", skipped[0].ContextMap()["field"])

	resolved := logs.FilterMessage("field value resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, "name", resolved[0].ContextMap()["field"])
	assert.Contains(t, resolved[0].ContextMap()["value"], "Ada")
}

func TestSourceValue(t *testing.T) {
	var illegal *diagnostic.IllegalArgumentError

	_, err := sourceValue(nil)
	require.ErrorAs(t, err, &illegal)

	_, err = sourceValue((*profile)(nil))
	require.ErrorAs(t, err, &illegal)

	_, err = sourceValue(map[string]any(nil))
	require.ErrorAs(t, err, &illegal)

	p := &profile{Name: "Ada"}
	v, err := sourceValue(&p)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[profile](), v.Type())
}
