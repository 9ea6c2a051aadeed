package populate

import (
	"errors"
	"fmt"
	"reflect"

	"bean-transformer/diagnostic"
	"bean-transformer/primitive"
)

// ErrCycle is reported when a source struct is reached again while it is
// being transformed.
var ErrCycle = errors.New("cyclic reference in source object graph")

// ObjectFunc rebuilds the struct src into the struct type dst. path is the
// destination breadcrumb of the value.
type ObjectFunc func(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error)

// Assembler rebuilds values into destination types. It is not safe for
// concurrent use; use one per transform call.
type Assembler struct {
	// Converter coerces primitive values of another kind, nil disables it.
	Converter *primitive.Converter
	// Object rebuilds nested structs.
	Object ObjectFunc

	dealer Dealer
}

// Populate rebuilds src into a value of type dst. An invalid or nil src yields
// the zero value of dst.
func (a *Assembler) Populate(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	if dst == nil {
		return reflect.Value{}, diagnostic.NewIllegalArgument("dst", "the destination type must not be nil")
	}

	orig := src

	var addr uintptr
	for src.IsValid() && (src.Kind() == reflect.Interface || isPointer(src.Type())) {
		if src.IsNil() {
			return reflect.Zero(dst), nil
		}

		if src.Kind() == reflect.Pointer {
			addr = src.Pointer()
		}

		src = src.Elem()
	}

	if !src.IsValid() || isNil(src) {
		return reflect.Zero(dst), nil
	}

	depth, base := ptrDepthAndBase(dst)

	var (
		out reflect.Value
		err error
	)

	switch Dispatch(src.Type(), base) {
	case DispatcherInterface:
		out, err = a.toInterface(orig, src, base, path)
	case DispatcherPrimitive:
		out, err = a.primitive(src, base, path)
	case DispatcherSlice:
		out, err = a.slice(src, base, path)
	case DispatcherMap:
		out, err = a.mapping(src, base, path)
	case DispatcherStruct:
		out, err = a.object(addr, src, base, path)
	default:
		out, err = a.unknown(src, base, path)
	}

	if err != nil {
		return reflect.Value{}, err
	}

	for range depth {
		ptr := reflect.New(out.Type())
		ptr.Elem().Set(out)
		out = ptr
	}

	if out.Type() != dst {
		out = out.Convert(dst)
	}

	return out, nil
}

func (a *Assembler) toInterface(orig, src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	out := reflect.New(dst).Elem()

	switch {
	case orig.Type().AssignableTo(dst):
		out.Set(orig)
	case src.Type().AssignableTo(dst):
		out.Set(src)
	default:
		return reflect.Value{}, a.conversionError(src.Type(), dst, path, "value does not implement the interface")
	}

	return out, nil
}

func (a *Assembler) primitive(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	if src.Type() == dst {
		return src, nil
	}

	if primitive.FromReflectType(src.Type()) == primitive.FromReflectType(dst) && src.Type().ConvertibleTo(dst) {
		return src.Convert(dst), nil
	}

	if a.Converter == nil {
		return reflect.Value{}, a.conversionError(src.Type(), dst, path, "primitive type conversion is disabled")
	}

	out, err := a.Converter.Coerce(src, dst)
	if err != nil {
		var convErr *diagnostic.TypeConversionError
		if errors.As(err, &convErr) && convErr.Field == "" {
			convErr.Field = path
		}

		return reflect.Value{}, err
	}

	return out, nil
}

// slice rebuilds a slice or an array. A source shorter than an array
// destination fills its first elements; a longer one does not fit.
func (a *Assembler) slice(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	n := src.Len()

	var out reflect.Value
	if dst.Kind() == reflect.Array {
		if n > dst.Len() {
			return reflect.Value{}, a.conversionError(src.Type(), dst, path,
				fmt.Sprintf("%d elements do not fit in an array of length %d", n, dst.Len()))
		}

		out = reflect.New(dst).Elem()
	} else {
		out = reflect.MakeSlice(dst, n, n)
	}

	for i := range n {
		elem, err := a.Populate(src.Index(i), dst.Elem(), path)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}

		out.Index(i).Set(elem)
	}

	return out, nil
}

func (a *Assembler) mapping(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	out := reflect.MakeMapWithSize(dst, src.Len())

	iter := src.MapRange()
	for iter.Next() {
		key, err := a.Populate(iter.Key(), dst.Key(), path)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("key %v: %w", iter.Key(), err)
		}

		val, err := a.Populate(iter.Value(), dst.Elem(), path)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("value of key %v: %w", iter.Key(), err)
		}

		out.SetMapIndex(key, val)
	}

	return out, nil
}

func (a *Assembler) object(addr uintptr, src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	if a.Object == nil {
		return a.unknown(src, dst, path)
	}

	if addr != 0 {
		if !a.dealer.Enter(addr, src.Type(), dst) {
			return reflect.Value{}, fmt.Errorf("%s at %q: %w", diagnostic.TypeName(src.Type()), path, ErrCycle)
		}
		defer a.dealer.Done(addr, src.Type(), dst)
	}

	out, err := a.Object(src, dst, path)
	if err != nil {
		return reflect.Value{}, err
	}

	for out.Kind() == reflect.Pointer {
		out = out.Elem()
	}

	return out, nil
}

// unknown copies values assignable or convertible to dst as they are.
func (a *Assembler) unknown(src reflect.Value, dst reflect.Type, path string) (reflect.Value, error) {
	if src.Type().AssignableTo(dst) {
		return src, nil
	}

	if src.Kind() == dst.Kind() && src.Type().ConvertibleTo(dst) {
		return src.Convert(dst), nil
	}

	return reflect.Value{}, a.conversionError(src.Type(), dst, path, "unsupported conversion")
}

func (a *Assembler) conversionError(src, dst reflect.Type, path, msg string) error {
	return &diagnostic.TypeConversionError{From: src, To: dst, Field: path, Message: msg}
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
