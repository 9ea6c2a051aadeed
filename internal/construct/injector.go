package construct

import (
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/descriptor"
)

// ResolveFunc returns the value of the destination field f. ok is false when
// the field is left untouched. An invalid value stands for nil.
type ResolveFunc func(f *descriptor.Field) (value reflect.Value, ok bool, err error)

// Injector runs the construction strategies. Safe for concurrent use.
type Injector struct {
	provider *descriptor.Provider
	cache    *cache.Cache
	logger   *zap.Logger
}

func New(provider *descriptor.Provider, c *cache.Cache, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Injector{provider: provider, cache: c, logger: logger}
}

// Setters sets every settable field of the struct ptr points to.
func (in *Injector) Setters(ptr reflect.Value, fields []*descriptor.Field, resolve ResolveFunc) error {
	for _, f := range fields {
		if !f.Settable() {
			continue
		}

		value, ok, err := resolve(f)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if err := in.set(ptr, f, value); err != nil {
			return err
		}
	}

	return nil
}

func (in *Injector) set(ptr reflect.Value, f *descriptor.Field, value reflect.Value) error {
	owner := diagnostic.TypeName(ptr.Type().Elem())

	if value.IsValid() && !value.Type().AssignableTo(f.Type) {
		cause := &diagnostic.TypeConversionError{
			From:    value.Type(),
			To:      f.Type,
			Field:   f.Name,
			Message: "value is not assignable",
		}

		return &diagnostic.InvalidBeanError{
			Message: fmt.Sprintf("cannot set field %q of %s: %v", f.Name, owner, cause),
			Err:     cause,
		}
	}

	if err := f.Set(ptr, value); err != nil {
		return &diagnostic.InvalidBeanError{
			Message: fmt.Sprintf("cannot set field %q of %s: %v", f.Name, owner, err),
			Err:     err,
		}
	}

	return nil
}

// Constructor builds the destination with ctor and returns a pointer to it.
// source is the type of the source object, used in diagnostics.
func (in *Injector) Constructor(ctor *descriptor.Constructor, source reflect.Type, resolve ResolveFunc) (reflect.Value, error) {
	return in.construct(ctor, source, resolve, false)
}

func (in *Injector) construct(
	ctor *descriptor.Constructor, source reflect.Type, resolve ResolveFunc, force bool,
) (reflect.Value, error) {
	var (
		args []reflect.Value
		err  error
	)

	if force || in.canBeInjectedByConstructorParams(ctor) {
		args, err = in.paramValues(ctor, resolve)
	} else {
		args, err = in.fieldValues(ctor, resolve)
	}

	if err != nil {
		return reflect.Value{}, err
	}

	types := make([]reflect.Type, len(args))
	for i, arg := range args {
		if arg.IsValid() {
			types[i] = arg.Type()
		}
	}

	ptr, err := ctor.Call(args)
	if err == nil {
		return ptr, nil
	}

	if !ctor.NamesAvailable() {
		if !force {
			in.logger.Debug("constructor injection by field order failed, retrying by parameter name",
				zap.String("constructor", ctor.Signature()),
				zap.Error(err),
			)

			return in.construct(ctor, source, resolve, true)
		}

		return reflect.Value{}, &diagnostic.InvalidBeanError{
			Message: fmt.Sprintf("constructor parameter names are not available. This caused a problem during the %s injection. "+
				"Register %s with the destination field name of each parameter",
				diagnostic.SimpleName(ctor.Type), ctor.Name),
			Err: err,
		}
	}

	found := descriptor.Signature(diagnostic.TypeName(ctor.Type), types)

	return reflect.Value{}, diagnostic.NewConstructorMismatch(ctor.Signature(), found, ctor.Type, source, err)
}

// canBeInjectedByConstructorParams reports whether every parameter of ctor has
// a destination field name.
func (in *Injector) canBeInjectedByConstructorParams(ctor *descriptor.Constructor) bool {
	key := cache.Key(cache.CanBeInjectedByConstructorParams, ctor.Key())
	if res, ok := cache.Get[bool](in.cache, key); ok {
		return res
	}

	res := ctor.NamesAvailable()
	in.cache.Put(key, res)

	return res
}

// destFieldName returns the destination field name of parameter i, empty
// when unresolved.
func (in *Injector) destFieldName(ctor *descriptor.Constructor, i int) string {
	key := cache.Key(cache.DestFieldName, ctor.Key(), strconv.Itoa(i))
	if name, ok := cache.Get[string](in.cache, key); ok {
		return name
	}

	name := ctor.ParamName(i)
	in.cache.Put(key, name)

	return name
}

// paramValues resolves each parameter as the field it is named after.
// Unnamed parameters get the zero value of their type.
func (in *Injector) paramValues(ctor *descriptor.Constructor, resolve ResolveFunc) ([]reflect.Value, error) {
	d := in.provider.Describe(ctor.Type)
	args := make([]reflect.Value, len(ctor.Params))

	for i, param := range ctor.Params {
		name := in.destFieldName(ctor, i)
		if name == "" {
			args[i] = reflect.Zero(param)
			continue
		}

		f, ok := d.Field(name)
		if !ok || f.Type != param {
			f = &descriptor.Field{Name: name, GoName: name, Type: param}
		}

		value, ok, err := resolve(f)
		if err != nil {
			return nil, err
		}

		if ok {
			args[i] = value
		}
	}

	return args, nil
}

// fieldValues resolves every field of the destination in declaration order.
func (in *Injector) fieldValues(ctor *descriptor.Constructor, resolve ResolveFunc) ([]reflect.Value, error) {
	d := in.provider.Describe(ctor.Type)
	args := make([]reflect.Value, 0, len(d.Fields))

	for _, f := range d.Fields {
		value, ok, err := resolve(f)
		if err != nil {
			return nil, err
		}

		if !ok {
			value = reflect.Zero(f.Type)
		}

		args = append(args, value)
	}

	return args, nil
}
