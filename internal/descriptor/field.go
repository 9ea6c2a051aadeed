package descriptor

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeFor[error]()

// ErrNotSettable is returned by Field.Set for a field with neither a setter
// nor an exported Go field.
var ErrNotSettable = errors.New("field has no setter and is not exported")

// Field is a transformable struct field.
type Field struct {
	// Name is the logical name.
	Name   string
	GoName string
	Index  []int
	Type   reflect.Type
	// Exported is true when the Go field can be accessed directly.
	Exported bool

	getter    reflect.Method
	hasGetter bool
	setter    reflect.Method
	hasSetter bool
}

// Readable reports whether Get can read the field.
func (f *Field) Readable() bool {
	return f.hasGetter || f.Exported
}

// Settable reports whether Set can write the field.
func (f *Field) Settable() bool {
	return f.hasSetter || f.Exported
}

// Immutable reports a field only a constructor can populate.
func (f *Field) Immutable() bool {
	return !f.Settable()
}

// Get reads the field from the struct value v, through the getter when there
// is one.
func (f *Field) Get(v reflect.Value) (reflect.Value, error) {
	if f.hasGetter {
		out, err := call(f.getter, addressable(v))
		if err != nil {
			return reflect.Value{}, err
		}

		return out[0], nil
	}

	if !f.Exported {
		return reflect.Value{}, fmt.Errorf("field %s of %s has no getter and is not exported", f.GoName, v.Type())
	}

	return v.FieldByIndex(f.Index), nil
}

// Set writes value into the struct ptr points to. The setter is preferred;
// when it fails an exported field is assigned directly.
func (f *Field) Set(ptr reflect.Value, value reflect.Value) error {
	if !value.IsValid() {
		value = reflect.Zero(f.Type)
	}

	var setterErr error

	if f.hasSetter {
		setterErr = invokeSetter(f.setter, ptr, value)
		if setterErr == nil {
			return nil
		}
	}

	if !f.Exported {
		if setterErr != nil {
			return setterErr
		}

		return ErrNotSettable
	}

	if !value.Type().AssignableTo(f.Type) {
		return fmt.Errorf("value of type %s is not assignable to field %s of type %s", value.Type(), f.GoName, f.Type)
	}

	ptr.Elem().FieldByIndex(f.Index).Set(value)

	return nil
}

// invokeSetter calls a setter method on ptr, reporting a trailing error result.
func invokeSetter(m reflect.Method, ptr, value reflect.Value) error {
	if !value.Type().AssignableTo(m.Type.In(1)) {
		return fmt.Errorf("value of type %s is not assignable to %s argument %s", value.Type(), m.Name, m.Type.In(1))
	}

	out, err := call(m, ptr, value)
	if err != nil {
		return err
	}

	if n := len(out); n > 0 && m.Type.Out(n-1) == errorType && !out[n-1].IsNil() {
		return out[n-1].Interface().(error)
	}

	return nil
}

// call invokes a method guarding against panics of user code.
func call(m reflect.Method, args ...reflect.Value) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", m.Name, r)
		}
	}()

	return m.Func.Call(args), nil
}

// addressable returns a pointer to v, copying v when it is not addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Pointer {
		return v
	}

	if v.CanAddr() {
		return v.Addr()
	}

	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)

	return ptr
}

// InvokeSetter calls the setter m on ptr with value, reporting a trailing
// error result and panics as errors.
func InvokeSetter(m reflect.Method, ptr, value reflect.Value) error {
	return invokeSetter(m, ptr, value)
}

// Invoke calls m with the receiver and args, reporting panics as errors.
func Invoke(m reflect.Method, recv reflect.Value, args ...reflect.Value) ([]reflect.Value, error) {
	return call(m, append([]reflect.Value{recv}, args...)...)
}
