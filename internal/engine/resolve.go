package engine

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/descriptor"
	"bean-transformer/options"
	"bean-transformer/primitive"
)

var dumper = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// fieldValue resolves the value of the destination field f from src. ok is
// false for skipped fields and for nil primitives left unassigned.
func (c *call) fieldValue(src reflect.Value, f *descriptor.Field, breadcrumb string) (reflect.Value, bool, error) {
	path := joinPath(breadcrumb, f.Name)
	if c.settings.IsSkipped(path) {
		c.logger.Debug("field skipped", zap.String("field", path))
		return reflect.Value{}, false, nil
	}

	transformer, hasTransformer := c.settings.Transformer(path, f.Name)
	isPrimitive := primitive.IsPrimitive(f.Type)
	srcPath := c.sourcePath(f.Name)

	var value reflect.Value
	if !hasTransformer || transformer.Arity() == 1 {
		v, err := c.sourceFieldValue(src, srcPath, hasTransformer)
		if err != nil {
			return reflect.Value{}, false, err
		}

		value = v
	}

	if isPrimitive {
		value = indirect(value)
	} else if value.IsValid() && isNil(value) {
		value = reflect.Value{}
	}

	switch {
	case value.IsValid() && !hasTransformer && !isPrimitive:
		populated, err := c.assembler.Populate(value, f.Type, path)
		if err != nil {
			return reflect.Value{}, false, err
		}

		value = populated

	case !value.IsValid() && isPrimitive && !hasTransformer:
		if !c.settings.Flag(options.FlagDefaultValueForMissingPrimitiveField) {
			// nothing to assign, the field keeps its value
			c.logger.Debug("nil primitive value left unassigned", zap.String("field", path))
			return reflect.Value{}, false, nil
		}

		value = reflect.Zero(f.Type)
	}

	value, err := c.transformedValue(value, f, path, transformer, hasTransformer, isPrimitive)
	if err != nil {
		return reflect.Value{}, false, err
	}

	if ce := c.logger.Check(zap.DebugLevel, "field value resolved"); ce != nil {
		ce.Write(
			zap.String("field", path),
			zap.String("source", srcPath),
			zap.Bool("transformed", hasTransformer),
			zap.String("value", dump(value)),
		)
	}

	return value, true, nil
}

// sourcePath returns the source path mapped to the destination field name,
// or the name itself.
func (c *call) sourcePath(name string) string {
	if p, ok := c.settings.FieldsNameMapping[name]; ok {
		return p
	}

	return name
}

// sourceFieldValue reads srcPath from src. A missing field yields nil when a
// transformer is defined or the default policy applies; a primitive source is
// returned as it is.
func (c *call) sourceFieldValue(src reflect.Value, srcPath string, hasTransformer bool) (reflect.Value, error) {
	v, err := c.read(src, srcPath)
	if err == nil {
		return v, nil
	}

	var missing *diagnostic.MissingFieldError
	if errors.As(err, &missing) {
		switch {
		case primitive.IsPrimitive(src.Type()):
			return src, nil
		case hasTransformer || c.settings.Flag(options.FlagDefaultValueForMissingField):
			return reflect.Value{}, nil
		}

		return reflect.Value{}, err
	}

	if hasTransformer {
		return reflect.Value{}, nil
	}

	return reflect.Value{}, err
}

// transformedValue converts a primitive value to the field type and applies
// the field transformer.
func (c *call) transformedValue(
	value reflect.Value, f *descriptor.Field, path string,
	transformer options.FieldTransformer, hasTransformer, isPrimitive bool,
) (reflect.Value, error) {
	if isPrimitive && value.IsValid() && value.Type() != f.Type {
		converted, err := c.coerce(value, f.Type, path, hasTransformer)
		if err != nil {
			return reflect.Value{}, err
		}

		value = converted
	}

	if !hasTransformer {
		return value, nil
	}

	out, err := transformer.Apply(path, value)
	if err != nil {
		return reflect.Value{}, err
	}

	return checkTransformed(out, f, path, transformer)
}

// coerce converts value to dst. Without primitive conversion only values of
// the same kind are converted, other values are left for the injection to
// reject. A missing conversion function fails unless a transformer follows.
func (c *call) coerce(value reflect.Value, dst reflect.Type, path string, hasTransformer bool) (reflect.Value, error) {
	if !c.settings.Flag(options.FlagPrimitiveTypeConversion) {
		if sameKind(value.Type(), dst) {
			return value.Convert(dst), nil
		}

		return value, nil
	}

	fn, ok := c.conversion(value.Type(), dst)
	if !ok {
		if hasTransformer {
			return value, nil
		}

		return reflect.Value{}, &diagnostic.TypeConversionError{
			From:    value.Type(),
			To:      dst,
			Field:   path,
			Message: "no converter available for type",
		}
	}

	out, err := fn(value)
	if err != nil {
		var convErr *diagnostic.TypeConversionError
		if errors.As(err, &convErr) && convErr.Field == "" {
			convErr.Field = path
		}

		return reflect.Value{}, err
	}

	return out, nil
}

// conversion returns the cached conversion function from src to dst.
func (c *call) conversion(src, dst reflect.Type) (primitive.Func, bool) {
	key := cache.Key(cache.TransformerFunction,
		descriptor.TypeKey(src), descriptor.TypeKey(dst), strconv.Itoa(int(c.settings.Categories)))

	if fn, ok := cache.Get[primitive.Func](c.cache, key); ok {
		return fn, fn != nil
	}

	fn, ok := c.converter.Lookup(src, dst)
	c.cache.Put(key, fn)

	return fn, ok
}

// checkTransformed verifies that a transformer result can be assigned to the
// field. A nil result stands for the zero value.
func checkTransformed(out reflect.Value, f *descriptor.Field, path string, t options.FieldTransformer) (reflect.Value, error) {
	if out.IsValid() && out.Kind() == reflect.Interface {
		out = out.Elem()
	}

	if !out.IsValid() {
		return reflect.Value{}, nil
	}

	switch {
	case out.Type().AssignableTo(f.Type):
		return out, nil
	case sameKind(out.Type(), f.Type):
		return out.Convert(f.Type), nil
	}

	return reflect.Value{}, &diagnostic.InvalidFunctionError{
		Field:   path,
		Message: fmt.Sprintf("the transformer %s returned a value not assignable to the field", t),
		Err: &diagnostic.TypeConversionError{
			From:    out.Type(),
			To:      f.Type,
			Message: "value is not assignable",
		},
	}
}

// sameKind reports primitives of the same kind convertible to each other,
// e.g. a named `type Age int` and int.
func sameKind(src, dst reflect.Type) bool {
	kind := primitive.FromReflectType(src)

	return kind != 0 && kind == primitive.FromReflectType(dst) && src.ConvertibleTo(dst)
}

// indirect dereferences pointers and interfaces, *big.Int excluded. Nil
// yields an invalid value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() {
		switch {
		case v.Kind() == reflect.Interface || (v.Kind() == reflect.Pointer && !primitive.IsPrimitive(v.Type())):
			if v.IsNil() {
				return reflect.Value{}
			}

			v = v.Elem()

		case isNil(v):
			return reflect.Value{}

		default:
			return v
		}
	}

	return v
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func joinPath(breadcrumb, name string) string {
	if breadcrumb == "" {
		return name
	}

	return breadcrumb + "." + name
}

func dump(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}

	if !v.CanInterface() {
		return v.Type().String()
	}

	return dumper.Sprintf("%v", v.Interface())
}
