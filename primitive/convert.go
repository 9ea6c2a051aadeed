package primitive

import (
	"fmt"
	"reflect"

	"bean-transformer/diagnostic"
)

// Func converts a value to the destination type it was looked up for.
type Func func(reflect.Value) (reflect.Value, error)

// Converter is the registry of primitive conversion functions restricted to a
// set of allowed categories. It is immutable and safe for concurrent use.
type Converter struct {
	allowed CategoryEnum
	pairs   map[ConversionPair]struct{}
}

// NewConverter returns a Converter accepting the pairs of the allowed categories.
func NewConverter(allowed CategoryEnum) *Converter {
	return &Converter{
		allowed: allowed,
		pairs:   Pairs(allowed),
	}
}

// Allowed returns the category mask the converter was created with.
func (c *Converter) Allowed() CategoryEnum {
	return c.allowed
}

// Lookup returns the conversion function from src to dst. Values of the same
// kind (e.g. a named `type Age int` and int) always convert, regardless of the
// allowed categories.
func (c *Converter) Lookup(src, dst reflect.Type) (Func, bool) {
	srcKind, dstKind := FromReflectType(src), FromReflectType(dst)
	if srcKind == 0 || dstKind == 0 {
		return nil, false
	}

	if src == dst {
		return func(v reflect.Value) (reflect.Value, error) { return v, nil }, true
	}

	if srcKind == dstKind && src.ConvertibleTo(dst) {
		return func(v reflect.Value) (reflect.Value, error) { return v.Convert(dst), nil }, true
	}

	pair := ConversionPair{srcKind, dstKind}
	if _, ok := c.pairs[pair]; !ok {
		return nil, false
	}

	fn, ok := functions[pair]
	if !ok {
		return nil, false
	}

	return func(v reflect.Value) (reflect.Value, error) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return reflect.Zero(dst), nil
		}

		out, err := fn(v)
		if err != nil {
			return reflect.Value{}, &diagnostic.TypeConversionError{From: src, To: dst, Err: err}
		}

		if out.Type() != dst {
			out = out.Convert(dst)
		}

		return out, nil
	}, true
}

// Coerce converts v to dst, failing with a TypeConversionError when no
// function is registered for the pair.
func (c *Converter) Coerce(v reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(dst), nil
	}

	fn, ok := c.Lookup(v.Type(), dst)
	if !ok {
		return reflect.Value{}, &diagnostic.TypeConversionError{
			From:    v.Type(),
			To:      dst,
			Message: "no converter available for type",
		}
	}

	return fn(v)
}

// Convert converts value to dst. A nil value converts to nil and a value
// already of type dst is returned unchanged.
func (c *Converter) Convert(value any, dst reflect.Type) (any, error) {
	if dst == nil {
		return nil, diagnostic.NewIllegalArgument("dst", "the destination type must not be nil")
	}

	if value == nil {
		return nil, nil
	}

	v := reflect.ValueOf(value)
	if v.Type() == dst {
		return value, nil
	}

	out, err := c.Coerce(v, dst)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// ConvertTo converts value to T using c.
func ConvertTo[T any](c *Converter, value any) (T, error) {
	var zero T

	out, err := c.Convert(value, reflect.TypeFor[T]())
	if err != nil || out == nil {
		return zero, err
	}

	res, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("converted value %T is not a %T", out, zero)
	}

	return res, nil
}
