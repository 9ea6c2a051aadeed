package options

import (
	"errors"
	"fmt"
	"reflect"

	"bean-transformer/diagnostic"
	"bean-transformer/utils"
)

var (
	ErrIsNotATransformer         = errors.New("provided function is not a recognizable field transformer")
	ErrTransformerIsNotAFunction = errors.New("provided field transformer is not a function")
)

var errorType = reflect.TypeFor[error]()

// FieldTransformer computes the value of one or more destination fields.
//
// Supports functions:
//   - func() (dst Type)
//   - func() (dst Type, error)
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, error)
//
// A supplier (no argument) ignores the source entirely, so it can provide a
// value for a field the source lacks.
type FieldTransformer struct {
	Fields []string
	// In is the argument type, nil for suppliers.
	In  reflect.Type
	Out reflect.Type
	// PackageAlias and Name identify the function in diagnostics.
	PackageAlias string
	Name         string
	HasErr       bool

	fn reflect.Value
}

// NewFieldTransformer inspects fn and binds it to the destination fields.
func NewFieldTransformer(fn any, fields ...string) (FieldTransformer, error) {
	if fn == nil {
		return FieldTransformer{}, ErrTransformerIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return FieldTransformer{}, ErrTransformerIsNotAFunction
	}

	if fnType.NumIn() > 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return FieldTransformer{}, ErrIsNotATransformer
	}

	alias, name := utils.FuncName(fnVal)

	t := FieldTransformer{
		Fields:       fields,
		Out:          fnType.Out(0),
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	if fnType.NumIn() == 1 {
		t.In = fnType.In(0)
	}

	switch fnType.NumOut() {
	default:
		return FieldTransformer{}, ErrIsNotATransformer

	case 1:
		return t, nil

	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return FieldTransformer{}, ErrIsNotATransformer
		}

		t.HasErr = true
		return t, nil
	}
}

// MustFieldTransformer is like NewFieldTransformer but panics on an invalid fn.
func MustFieldTransformer(fn any, fields ...string) FieldTransformer {
	t, err := NewFieldTransformer(fn, fields...)
	if err != nil {
		panic(err)
	}

	return t
}

// Arity is the number of arguments the function takes, 0 or 1.
func (t FieldTransformer) Arity() int {
	if t.In == nil {
		return 0
	}

	return 1
}

// Apply invokes the function. An invalid input is passed as the zero value of
// the argument type. Panics and returned errors become InvalidFunctionError.
func (t FieldTransformer) Apply(field string, in reflect.Value) (out reflect.Value, err error) {
	if !t.fn.IsValid() {
		return reflect.Value{}, &diagnostic.InvalidFunctionError{Field: field, Err: ErrTransformerIsNotAFunction}
	}

	defer func() {
		if r := recover(); r != nil {
			out = reflect.Value{}
			err = &diagnostic.InvalidFunctionError{Field: field, Err: fmt.Errorf("%s panicked: %v", t.String(), r)}
		}
	}()

	var args []reflect.Value
	if t.In != nil {
		arg, argErr := t.argument(in)
		if argErr != nil {
			return reflect.Value{}, &diagnostic.InvalidFunctionError{Field: field, Err: argErr}
		}

		args = []reflect.Value{arg}
	}

	res := t.fn.Call(args)
	if t.HasErr && !res[1].IsNil() {
		return reflect.Value{}, &diagnostic.InvalidFunctionError{Field: field, Err: res[1].Interface().(error)}
	}

	return res[0], nil
}

func (t FieldTransformer) argument(in reflect.Value) (reflect.Value, error) {
	if !in.IsValid() {
		return reflect.Zero(t.In), nil
	}

	if in.Type().AssignableTo(t.In) {
		return in, nil
	}

	return reflect.Value{}, fmt.Errorf("%s expects %s, got %s", t.String(), t.In, in.Type())
}

// String returns "pkg.Func", or "func" for closures without a usable name.
func (t FieldTransformer) String() string {
	if t.Name == "" {
		return "func"
	}

	return t.PackageAlias + "." + t.Name
}
