package primitive_test

import (
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-transformer/diagnostic"
	"bean-transformer/primitive"
)

type Age int

func TestConverterConvert(t *testing.T) {
	t.Parallel()

	conv := primitive.NewConverter(primitive.CategoryAll)

	tests := []struct {
		name  string
		value any
		to    reflect.Type
		want  any
	}{
		{"string to int", "1234", reflect.TypeFor[int](), 1234},
		{"padded string to int64", " 42 ", reflect.TypeFor[int64](), int64(42)},
		{"int to string", 1234, reflect.TypeFor[string](), "1234"},
		{"float to string", 1.5, reflect.TypeFor[string](), "1.5"},
		{"float narrowing truncates", 3.99, reflect.TypeFor[int](), 3},
		{"int narrowing truncates", int64(300), reflect.TypeFor[int8](), int8(44)},
		{"widening", int8(-3), reflect.TypeFor[int64](), int64(-3)},
		{"zero is false", 0, reflect.TypeFor[bool](), false},
		{"nonzero is true", -7, reflect.TypeFor[bool](), true},
		{"true is one", true, reflect.TypeFor[float64](), float64(1)},
		{"textual bool", "yes", reflect.TypeFor[bool](), true},
		{"named type", 30, reflect.TypeFor[Age](), Age(30)},
		{"named type to base", Age(30), reflect.TypeFor[int](), 30},
		{"duration from string", "2h45m", reflect.TypeFor[time.Duration](), 2*time.Hour + 45*time.Minute},
		{"duration to seconds", 90 * time.Second, reflect.TypeFor[float64](), 90.0},
		{"duration from nanoseconds", int64(1500), reflect.TypeFor[time.Duration](), 1500 * time.Nanosecond},
		{"timestamp", int64(0), reflect.TypeFor[time.Time](), time.Unix(0, 0).UTC()},
		{"big int to string", big.NewInt(99), reflect.TypeFor[string](), "99"},
		{"decimal to string", decimal.RequireFromString("1.250"), reflect.TypeFor[string](), "1.25"},
		{"decimal to int truncates", decimal.RequireFromString("7.9"), reflect.TypeFor[int](), 7},
		{"string to bytes", "ab", reflect.TypeFor[[]byte](), []byte("ab")},
		{"int32 to bytes", int32(258), reflect.TypeFor[[]byte](), []byte{0, 0, 1, 2}},
		{"bytes to int64", []byte{0, 0, 0, 0, 0, 0, 1, 0}, reflect.TypeFor[int64](), int64(256)},
		{"bytes to int16 keeps sign", []byte{0xff, 0xfe}, reflect.TypeFor[int16](), int16(-2)},
		{"bytes to bool", []byte{1}, reflect.TypeFor[bool](), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.Convert(tt.value, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverterNilAndSameType(t *testing.T) {
	t.Parallel()

	conv := primitive.NewConverter(primitive.CategoryAll)

	got, err := conv.Convert(nil, reflect.TypeFor[int]())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = conv.Convert("x", reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = conv.Convert(1, nil)

	var illegal *diagnostic.IllegalArgumentError
	assert.ErrorAs(t, err, &illegal)
}

func TestBigNumbersRoundTrip(t *testing.T) {
	t.Parallel()

	conv := primitive.NewConverter(primitive.CategoryAll)

	in := new(big.Int)
	in.SetString("123456789012345678901234567890", 10)

	d, err := primitive.ConvertTo[decimal.Decimal](conv, in)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", d.String())

	back, err := primitive.ConvertTo[*big.Int](conv, d)
	require.NoError(t, err)
	assert.Zero(t, in.Cmp(back))
}

func TestConverterErrors(t *testing.T) {
	t.Parallel()

	conv := primitive.NewConverter(primitive.CategoryAll)

	t.Run("unparsable number", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.ConvertTo[int](conv, "12ab")

		var convErr *diagnostic.TypeConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, reflect.TypeFor[string](), convErr.From)
		assert.Equal(t, reflect.TypeFor[int](), convErr.To)
	})

	t.Run("not enough bytes", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.ConvertTo[int64](conv, []byte{1, 2, 3})

		var convErr *diagnostic.TypeConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Contains(t, err.Error(), "at least 8 bytes are required")
	})

	t.Run("no converter", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.ConvertTo[time.Time](conv, true)

		var convErr *diagnostic.TypeConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Contains(t, err.Error(), "no converter available for type")
	})
}

func TestConverterCategories(t *testing.T) {
	t.Parallel()

	safe := primitive.NewConverter(primitive.CategorySafeNumber)
	assert.Equal(t, primitive.CategorySafeNumber, safe.Allowed())

	_, ok := safe.Lookup(reflect.TypeFor[int8](), reflect.TypeFor[int64]())
	assert.True(t, ok, "widening is safe")

	_, ok = safe.Lookup(reflect.TypeFor[int64](), reflect.TypeFor[int8]())
	assert.False(t, ok, "narrowing is unsafe")

	_, ok = safe.Lookup(reflect.TypeFor[string](), reflect.TypeFor[int]())
	assert.False(t, ok)

	_, ok = primitive.NewConverter(primitive.CategoryNone).Lookup(reflect.TypeFor[Age](), reflect.TypeFor[int]())
	assert.True(t, ok, "same kind always converts")

	_, ok = safe.Lookup(reflect.TypeFor[struct{}](), reflect.TypeFor[int]())
	assert.False(t, ok)
}
