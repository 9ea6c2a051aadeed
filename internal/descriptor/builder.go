package descriptor

import (
	"fmt"
	"reflect"
)

// HasBuilder is implemented by types constructed through a builder. NewBuilder
// returns a fresh builder whose Build method returns the type, by value or by
// pointer, optionally with an error.
type HasBuilder interface {
	NewBuilder() any
}

var hasBuilderType = reflect.TypeFor[HasBuilder]()

// NewBuilder creates the builder of the type described by d.
func (d *Descriptor) NewBuilder() (builder reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s.NewBuilder panicked: %v", d.Type, r)
		}
	}()

	hb, ok := reflect.New(d.Type).Interface().(HasBuilder)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s does not implement HasBuilder", d.Type)
	}

	b := hb.NewBuilder()
	if b == nil {
		return reflect.Value{}, fmt.Errorf("%s.NewBuilder returned nil", d.Type)
	}

	builder = reflect.ValueOf(b)
	if builder.Kind() != reflect.Pointer {
		// make the builder addressable so pointer receiver setters apply
		ptr := reflect.New(builder.Type())
		ptr.Elem().Set(builder)
		builder = ptr
	}

	return builder, nil
}
