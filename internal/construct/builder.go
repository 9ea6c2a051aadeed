package construct

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/descriptor"
)

var errorType = reflect.TypeFor[error]()

// Builder populates the builder of the described type with the resolved
// field values and returns a pointer to the value its Build method returns.
func (in *Injector) Builder(d *descriptor.Descriptor, resolve ResolveFunc) (reflect.Value, error) {
	builder, err := d.NewBuilder()
	if err != nil {
		return reflect.Value{}, diagnostic.NewInvalidBean(err)
	}

	bd := in.provider.Describe(builder.Type())

	build, err := buildMethod(d.Type, bd)
	if err != nil {
		return reflect.Value{}, err
	}

	for _, f := range d.Fields {
		value, ok, err := resolve(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if !ok {
			continue
		}

		if !value.IsValid() {
			value = reflect.Zero(f.Type)
		}

		if err := in.withField(builder, bd, f, value); err != nil {
			return reflect.Value{}, err
		}
	}

	out, err := descriptor.Invoke(build, builder)
	if err != nil {
		return reflect.Value{}, diagnostic.NewInvalidBean(err)
	}

	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, diagnostic.NewInvalidBean(out[1].Interface().(error))
	}

	res := out[0]
	if res.Kind() == reflect.Pointer {
		if res.IsNil() {
			return reflect.Value{}, &diagnostic.InvalidBeanError{Message: fmt.Sprintf("%s.Build returned nil", bd.Type)}
		}

		return res, nil
	}

	ptr := reflect.New(d.Type)
	ptr.Elem().Set(res)

	return ptr, nil
}

// withField passes a value to the builder through its setter, or assigns the
// builder field of the same name.
func (in *Injector) withField(builder reflect.Value, bd *descriptor.Descriptor, f *descriptor.Field, value reflect.Value) error {
	if m, ok := bd.Setter(f.Name, f.Type); ok {
		if err := descriptor.InvokeSetter(m, builder, value); err != nil {
			return &diagnostic.InvalidBeanError{
				Message: fmt.Sprintf("cannot set field %q through %s.%s: %v", f.Name, bd.Type, m.Name, err),
				Err:     err,
			}
		}

		return nil
	}

	if bf, ok := bd.Field(f.Name); ok && bf.Settable() {
		return in.set(builder, bf, value)
	}

	in.logger.Debug("builder has no setter for field",
		zap.Stringer("builder", bd.Type),
		zap.String("field", f.Name),
	)

	return nil
}

// buildMethod returns the Build method of the builder, which must return the
// destination type by value or by pointer, optionally with an error.
func buildMethod(target reflect.Type, bd *descriptor.Descriptor) (reflect.Method, error) {
	m, ok := bd.Method("build")
	if !ok {
		return reflect.Method{}, &diagnostic.MissingMethodError{
			Type:    reflect.PointerTo(bd.Type),
			Method:  "Build",
			Message: "the builder of " + diagnostic.TypeName(target) + " must expose Build",
		}
	}

	mt := m.Type
	validOut := mt.NumOut() == 1 || (mt.NumOut() == 2 && mt.Out(1) == errorType)
	if mt.NumIn() != 1 || !validOut || (mt.Out(0) != target && mt.Out(0) != reflect.PointerTo(target)) {
		return reflect.Method{}, &diagnostic.MissingMethodError{
			Type:   reflect.PointerTo(bd.Type),
			Method: "Build",
			Message: fmt.Sprintf("Build must take no arguments and return %s or *%s, got %s",
				diagnostic.TypeName(target), diagnostic.TypeName(target), mt),
		}
	}

	return m, nil
}
