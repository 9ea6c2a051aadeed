package populate

import (
	"reflect"

	"bean-transformer/primitive"
)

type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherPrimitive
	DispatcherInterface
	DispatcherSlice
	DispatcherMap
	DispatcherStruct

	// DispatcherTotal is a constant that represents the total number of dispatchers defined
	DispatcherTotal = int(iota)
)

// Dispatch selects how a src value is rebuilt into dst. Neither type may be a
// pointer other than *big.Int.
func Dispatch(src, dst reflect.Type) DispatcherEnum {
	if isPointer(src) || isPointer(dst) {
		panic("dispatcher is not allowing pointer reflect types")
	}

	if dst.Kind() == reflect.Interface {
		return DispatcherInterface
	}

	// primitives first, []byte and *big.Int are primitives too
	dstKind := primitive.FromReflectType(dst)
	if dstKind != 0 {
		if primitive.FromReflectType(src) != 0 {
			return DispatcherPrimitive
		}
	}

	if dst.Kind() == reflect.Slice || dst.Kind() == reflect.Array {
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			return DispatcherSlice
		}

		return DispatcherUnknown
	}

	if dst.Kind() == reflect.Map {
		if src.Kind() == reflect.Map {
			return DispatcherMap
		}

		return DispatcherUnknown
	}

	if dst.Kind() == reflect.Struct && dstKind == 0 {
		if src.Kind() == reflect.Struct && primitive.FromReflectType(src) == 0 {
			return DispatcherStruct
		}

		// fields of a struct are read from a map by key
		if src.Kind() == reflect.Map && src.Key().Kind() == reflect.String {
			return DispatcherStruct
		}

		return DispatcherUnknown
	}

	return DispatcherUnknown
}

// ptrDepthAndBase returns the pointer depth and the final base type.
// *big.Int is a primitive and is never dereferenced.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for isPointer(base) {
		depth++
		base = base.Elem()
	}

	return
}

func isPointer(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && !primitive.IsPrimitive(t)
}
