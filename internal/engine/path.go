package engine

import (
	"fmt"
	"reflect"
	"strings"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/descriptor"
	"bean-transformer/internal/mapping"
	"bean-transformer/internal/match"
	"bean-transformer/primitive"
)

var anyType = reflect.TypeFor[any]()

// read returns the value at the dotted source path. A nil value met before
// the end of the path yields nil. A segment suffixed with "[]" maps the rest
// of the path over the elements of a slice.
func (c *call) read(src reflect.Value, srcPath string) (reflect.Value, error) {
	fp, err := parseSourcePath(srcPath)
	if err != nil {
		return reflect.Value{}, err
	}

	return c.readSegments(src, fp.Segments, fp.String())
}

func parseSourcePath(srcPath string) (mapping.FieldPath, error) {
	if !strings.Contains(srcPath, ".") && !strings.HasSuffix(srcPath, "[]") {
		return mapping.FieldPath{Segments: []mapping.PathSegment{{Name: srcPath}}}, nil
	}

	fp, err := mapping.ParsePath(srcPath)
	if err != nil {
		return mapping.FieldPath{}, diagnostic.NewIllegalArgument("sourceFieldPath", err.Error())
	}

	return fp, nil
}

func (c *call) readSegments(v reflect.Value, segments []mapping.PathSegment, full string) (reflect.Value, error) {
	for i, seg := range segments {
		v = indirect(v)
		if !v.IsValid() {
			return reflect.Value{}, nil
		}

		next, err := c.member(v, seg.Name, full)
		if err != nil {
			return reflect.Value{}, err
		}

		if seg.IsSlice {
			return c.readEach(next, segments[i+1:], full)
		}

		v = next
	}

	return v, nil
}

// readEach reads the rest of the path from every element of coll and
// collects the results in a slice.
func (c *call) readEach(coll reflect.Value, rest []mapping.PathSegment, full string) (reflect.Value, error) {
	coll = indirect(coll)
	if !coll.IsValid() {
		return reflect.Value{}, nil
	}

	if coll.Kind() != reflect.Slice && coll.Kind() != reflect.Array {
		return reflect.Value{}, diagnostic.NewIllegalArgument("sourceFieldPath",
			fmt.Sprintf("%q: %s is not a slice", full, coll.Type()))
	}

	if len(rest) == 0 {
		return coll, nil
	}

	elemType := c.pathType(coll.Type().Elem(), rest)
	out := reflect.MakeSlice(reflect.SliceOf(elemType), coll.Len(), coll.Len())

	for i := range coll.Len() {
		v, err := c.readSegments(coll.Index(i), rest, full)
		if err != nil {
			return reflect.Value{}, err
		}

		if v.IsValid() && v.Type().AssignableTo(elemType) {
			out.Index(i).Set(v)
		}
	}

	return out, nil
}

// member reads one path segment from a struct or a map with string keys.
func (c *call) member(v reflect.Value, name, full string) (reflect.Value, error) {
	switch {
	case v.Kind() == reflect.Struct && !primitive.IsPrimitive(v.Type()):
		d := c.provider.Describe(v.Type())

		f, ok := d.Field(name)
		if !ok || !f.Readable() {
			f, ok = fuzzyField(d, name)
		}

		if ok {
			return f.Get(v)
		}

		out, ok, err := d.CallGetter(name, v)
		if ok {
			return out, err
		}

		return reflect.Value{}, &diagnostic.MissingFieldError{
			Type:        v.Type(),
			Field:       name,
			Path:        full,
			Suggestions: match.Suggestions(name, readableNames(d)),
		}

	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		out := v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))
		if out.IsValid() {
			return out, nil
		}

		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}

		return reflect.Value{}, &diagnostic.MissingFieldError{
			Type:        v.Type(),
			Field:       name,
			Path:        full,
			Suggestions: match.Suggestions(name, keys),
		}

	default:
		return reflect.Value{}, &diagnostic.MissingFieldError{Type: v.Type(), Field: name, Path: full}
	}
}

// pathType returns the static type read at the path from t, any when it
// cannot be told without a value.
func (c *call) pathType(t reflect.Type, segments []mapping.PathSegment) reflect.Type {
	for i, seg := range segments {
		for t.Kind() == reflect.Pointer && !primitive.IsPrimitive(t) {
			t = t.Elem()
		}

		switch {
		case t.Kind() == reflect.Struct:
			d := c.provider.Describe(t)

			next, ok := d.ValueType(readableName(d, seg.Name))
			if !ok {
				return anyType
			}

			t = next

		case t.Kind() == reflect.Map && t.Key().Kind() == reflect.String:
			t = t.Elem()

		default:
			return anyType
		}

		if seg.IsSlice {
			for t.Kind() == reflect.Pointer {
				t = t.Elem()
			}

			if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
				return anyType
			}

			if len(segments[i+1:]) == 0 {
				return reflect.SliceOf(t.Elem())
			}

			return reflect.SliceOf(c.pathType(t.Elem(), segments[i+1:]))
		}
	}

	return t
}

// readableName returns the logical name of the readable field matching name,
// fuzzy matches included, or name itself.
func readableName(d *descriptor.Descriptor, name string) string {
	if f, ok := d.Field(name); ok && f.Readable() {
		return name
	}

	if f, ok := fuzzyField(d, name); ok {
		return f.Name
	}

	return name
}

// fuzzyField returns the first readable field whose normalized name equals
// the normalized name, so "order_id" finds "orderID".
func fuzzyField(d *descriptor.Descriptor, name string) (*descriptor.Field, bool) {
	for _, f := range d.Fields {
		if f.Readable() && match.EqualFold(f.Name, name) {
			return f, true
		}
	}

	return nil, false
}

func readableNames(d *descriptor.Descriptor) []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Readable() {
			names = append(names, f.Name)
		}
	}

	return names
}
