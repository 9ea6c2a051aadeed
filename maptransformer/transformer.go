package maptransformer

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sync"
	"sync/atomic"

	"bean-transformer/diagnostic"
	"bean-transformer/options"
	"bean-transformer/transformer"
)

type settings struct {
	// destination key -> source key
	mapping           map[string]string
	keyTransformers   map[string]options.FieldTransformer
	valueTransformers map[string]options.FieldTransformer
}

func newSettings() *settings {
	return &settings{
		mapping:           map[string]string{},
		keyTransformers:   map[string]options.FieldTransformer{},
		valueTransformers: map[string]options.FieldTransformer{},
	}
}

func (s *settings) clone() *settings {
	return &settings{
		mapping:           maps.Clone(s.mapping),
		keyTransformers:   maps.Clone(s.keyTransformers),
		valueTransformers: maps.Clone(s.valueTransformers),
	}
}

// Transformer transforms maps. Safe for concurrent use once configured.
type Transformer struct {
	beans *transformer.Transformer

	mu       sync.Mutex
	errs     []error
	settings atomic.Pointer[settings]
}

// New creates a map transformer converting keys and values with beans. A nil
// beans uses a bean transformer with default settings.
func New(beans *transformer.Transformer) *Transformer {
	if beans == nil {
		beans = transformer.New()
	}

	t := &Transformer{beans: beans}
	t.settings.Store(newSettings())

	return t
}

func (t *Transformer) update(fn func(s *settings) error) *Transformer {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.settings.Load().clone()
	if err := fn(s); err != nil {
		t.errs = append(t.errs, err)
		return t
	}

	t.settings.Store(s)

	return t
}

// Err returns the configuration errors recorded by the fluent methods.
func (t *Transformer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return errors.Join(t.errs...)
}

// WithFieldMapping takes the value of each destination key from the source key.
func (t *Transformer) WithFieldMapping(mappings ...options.FieldMapping) *Transformer {
	return t.update(func(s *settings) error {
		for _, m := range mappings {
			if err := m.Validate(); err != nil {
				return err
			}

			for _, dst := range m.Destinations {
				s.mapping[dst] = m.Source
			}
		}

		return nil
	})
}

// WithKeyTransformer rewrites the keys named by each transformer's fields.
func (t *Transformer) WithKeyTransformer(transformers ...options.FieldTransformer) *Transformer {
	return t.update(func(s *settings) error {
		return register(s.keyTransformers, transformers)
	})
}

// WithValueTransformer rewrites the values of the keys named by each
// transformer's fields.
func (t *Transformer) WithValueTransformer(transformers ...options.FieldTransformer) *Transformer {
	return t.update(func(s *settings) error {
		return register(s.valueTransformers, transformers)
	})
}

func register(dst map[string]options.FieldTransformer, transformers []options.FieldTransformer) error {
	for _, ft := range transformers {
		if len(ft.Fields) == 0 {
			return diagnostic.NewIllegalArgument("fields", "at least one map key is required")
		}

		for _, key := range ft.Fields {
			dst[key] = ft
		}
	}

	return nil
}

// RemoveFieldMapping removes the mapping of the destination key.
func (t *Transformer) RemoveFieldMapping(key string) *Transformer {
	return t.update(func(s *settings) error {
		delete(s.mapping, key)
		return nil
	})
}

// ResetFieldsMapping removes every mapping.
func (t *Transformer) ResetFieldsMapping() *Transformer {
	return t.update(func(s *settings) error {
		clear(s.mapping)
		return nil
	})
}

// ResetFieldsTransformer removes every key and value transformer.
func (t *Transformer) ResetFieldsTransformer() *Transformer {
	return t.update(func(s *settings) error {
		clear(s.keyTransformers)
		clear(s.valueTransformers)

		return nil
	})
}

// Reset removes every mapping and transformer and forgets configuration errors.
func (t *Transformer) Reset() *Transformer {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.settings.Store(newSettings())
	t.errs = nil

	return t
}

// Transform returns a transformed copy of the map m.
func Transform[K comparable, V any](t *Transformer, m map[K]V) (map[K]V, error) {
	if m == nil {
		return nil, diagnostic.NewIllegalArgument("sourceMap", "must not be nil")
	}

	out, err := t.transform(reflect.ValueOf(m), nil)
	if err != nil {
		return nil, err
	}

	return out.Interface().(map[K]V), nil
}

// TransformTo returns a transformed copy of the map m whose keys and values are
// converted to RK and RV. Conversions happen before the transformers run.
func TransformTo[RK comparable, RV any, K comparable, V any](t *Transformer, m map[K]V) (map[RK]RV, error) {
	if m == nil {
		return nil, diagnostic.NewIllegalArgument("sourceMap", "must not be nil")
	}

	out, err := t.transform(reflect.ValueOf(m), reflect.TypeFor[map[RK]RV]())
	if err != nil {
		return nil, err
	}

	return out.Interface().(map[RK]RV), nil
}

// transform copies src into a map of type dst, or of the type of src when dst
// is nil.
func (t *Transformer) transform(src reflect.Value, dst reflect.Type) (reflect.Value, error) {
	if err := t.Err(); err != nil {
		return reflect.Value{}, err
	}

	s := t.settings.Load()

	convert := dst != nil
	if !convert {
		dst = src.Type()
	}

	byName := make(map[string]reflect.Value, src.Len())
	for _, k := range src.MapKeys() {
		byName[keyName(k)] = k
	}

	out := reflect.MakeMapWithSize(dst, src.Len())

	iter := src.MapRange()
	for iter.Next() {
		name := keyName(iter.Key())

		value := iter.Value()
		if from, ok := s.mapping[name]; ok {
			if k, ok := byName[from]; ok {
				value = src.MapIndex(k)
			}
		}

		key, err := t.entry(iter.Key(), dst.Key(), name, s.keyTransformers, convert)
		if err != nil {
			return reflect.Value{}, err
		}

		if _, ok := s.valueTransformers[name]; !ok {
			if value, err = t.nested(value); err != nil {
				return reflect.Value{}, err
			}
		}

		value, err = t.entry(value, dst.Elem(), name, s.valueTransformers, convert)
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetMapIndex(key, value)
	}

	return out, nil
}

// nested transforms a map value with the same settings, keeping its type.
func (t *Transformer) nested(v reflect.Value) (reflect.Value, error) {
	inner := v
	for inner.IsValid() && inner.Kind() == reflect.Interface {
		if inner.IsNil() {
			return v, nil
		}

		inner = inner.Elem()
	}

	if !inner.IsValid() || inner.Kind() != reflect.Map || inner.IsNil() {
		return v, nil
	}

	return t.transform(inner, nil)
}

// entry converts a key or a value to typ when convert is set, then applies
// the transformer registered for the entry name.
func (t *Transformer) entry(
	v reflect.Value, typ reflect.Type, name string,
	transformers map[string]options.FieldTransformer, convert bool,
) (reflect.Value, error) {
	if convert {
		converted, err := t.convert(v, typ)
		if err != nil {
			return reflect.Value{}, err
		}

		v = converted
	}

	if ft, ok := transformers[name]; ok {
		out, err := ft.Apply(name, v)
		if err != nil {
			return reflect.Value{}, &diagnostic.InvalidFunctionError{
				Field:   name,
				Message: "the transformer function defined for the map key is not valid",
				Err:     err,
			}
		}

		v = out
	}

	return assignable(v, typ, name)
}

func (t *Transformer) convert(v reflect.Value, typ reflect.Type) (reflect.Value, error) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	if !v.IsValid() || isNil(v) {
		return reflect.Zero(typ), nil
	}

	if v.Type() == typ {
		return v, nil
	}

	out, err := t.beans.Transform(v.Interface(), typ)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(out), nil
}

// assignable returns v as a value of typ, an invalid v being the zero value.
func assignable(v reflect.Value, typ reflect.Type, name string) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(typ), nil
	}

	if v.Kind() == reflect.Interface && !v.IsNil() && typ.Kind() != reflect.Interface {
		v = v.Elem()
	}

	switch {
	case v.Type().AssignableTo(typ):
		out := reflect.New(typ).Elem()
		out.Set(v)

		return out, nil
	case v.Type().ConvertibleTo(typ) && v.Kind() == typ.Kind():
		return v.Convert(typ), nil
	}

	return reflect.Value{}, &diagnostic.InvalidFunctionError{
		Field:   name,
		Message: "the transformer function defined for the map key is not valid",
		Err: &diagnostic.TypeConversionError{
			From:    v.Type(),
			To:      typ,
			Message: "value is not assignable",
		},
	}
}

func keyName(k reflect.Value) string {
	return fmt.Sprint(k.Interface())
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
