package descriptor

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"bean-transformer/internal/match"
)

// TagName is the struct tag holding a field's logical name.
const TagName = "transform"

// Provider builds descriptors and caches them per type.
// Safe for concurrent use.
type Provider struct {
	types sync.Map // reflect.Type -> *Descriptor

	Constructors *Registry
}

func NewProvider() *Provider {
	return &Provider{Constructors: NewRegistry()}
}

// Descriptor holds the transformable fields and the methods of a struct type.
type Descriptor struct {
	Type   reflect.Type
	Fields []*Field

	byName  map[string]*Field
	methods map[string]reflect.Method // lowercase name -> method of *Type
}

// Describe returns the descriptor of t, pointers are dereferenced. Types other
// than structs have no fields.
func (p *Provider) Describe(t reflect.Type) *Descriptor {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if d, ok := p.types.Load(t); ok {
		return d.(*Descriptor)
	}

	d, _ := p.types.LoadOrStore(t, build(t))

	return d.(*Descriptor)
}

func build(t reflect.Type) *Descriptor {
	d := &Descriptor{
		Type:    t,
		byName:  map[string]*Field{},
		methods: map[string]reflect.Method{},
	}

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		m := ptr.Method(i)
		d.methods[strings.ToLower(m.Name)] = m
	}

	if t.Kind() != reflect.Struct {
		return d
	}

	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get(TagName) == "" {
			// promoted fields are listed on their own
			continue
		}

		if throughPointer(t, sf.Index) {
			continue
		}

		name := logicalName(sf)
		if name == "" {
			continue
		}

		if _, taken := d.byName[name]; taken {
			continue
		}

		f := &Field{
			Name:     name,
			GoName:   sf.Name,
			Index:    sf.Index,
			Type:     sf.Type,
			Exported: sf.IsExported(),
		}
		f.getter, f.hasGetter = d.Getter(name)
		f.setter, f.hasSetter = d.Setter(name, sf.Type)

		d.Fields = append(d.Fields, f)
		d.byName[name] = f
	}

	return d
}

func logicalName(sf reflect.StructField) string {
	tag, _, _ := strings.Cut(sf.Tag.Get(TagName), ",")
	switch tag {
	case "-":
		return ""
	case "":
		return match.LowerCamel(sf.Name)
	default:
		return tag
	}
}

// throughPointer reports whether reaching the field walks an embedded pointer.
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() == reflect.Pointer {
			return true
		}
	}

	return false
}

// Field returns the field with the given logical name.
func (d *Descriptor) Field(name string) (*Field, bool) {
	f, ok := d.byName[name]
	return f, ok
}

// FieldNames returns the logical names of all fields in declaration order.
func (d *Descriptor) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}

	return names
}

// Method returns the method of *Type with the given case-insensitive name.
func (d *Descriptor) Method(name string) (reflect.Method, bool) {
	m, ok := d.methods[strings.ToLower(name)]
	return m, ok
}

// Getter returns a method named name, getName or isName taking no arguments
// and returning a single value.
func (d *Descriptor) Getter(name string) (reflect.Method, bool) {
	for _, candidate := range []string{name, "get" + name, "is" + name} {
		m, ok := d.Method(candidate)
		if ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
			return m, true
		}
	}

	return reflect.Method{}, false
}

// Setter returns a method named setName, withName or name taking a single
// argument arg is assignable to. Any results are allowed, a trailing error
// result is reported by Field.Set.
func (d *Descriptor) Setter(name string, arg reflect.Type) (reflect.Method, bool) {
	for _, candidate := range []string{"set" + name, "with" + name, name} {
		m, ok := d.Method(candidate)
		if ok && m.Type.NumIn() == 2 && (arg == nil || arg.AssignableTo(m.Type.In(1))) {
			return m, true
		}
	}

	return reflect.Method{}, false
}

// HasBuilder reports whether the type opts into builder construction.
func (d *Descriptor) HasBuilder() bool {
	return reflect.PointerTo(d.Type).Implements(hasBuilderType)
}

var (
	typeIDs    sync.Map // reflect.Type -> string
	nextTypeID atomic.Uint64
)

// TypeKey identifies t in cache keys: its name followed by a number unique to
// the type within the process, "model.User#3". Types sharing a name, such as
// types declared in different functions, get different keys.
func TypeKey(t reflect.Type) string {
	if key, ok := typeIDs.Load(t); ok {
		return key.(string)
	}

	key := t.String() + "#" + strconv.FormatUint(nextTypeID.Add(1), 10)
	actual, _ := typeIDs.LoadOrStore(t, key)

	return actual.(string)
}

// ImmutableFields returns the logical names of the fields only a constructor
// can populate.
func (d *Descriptor) ImmutableFields() []string {
	var names []string
	for _, f := range d.Fields {
		if f.Immutable() {
			names = append(names, f.Name)
		}
	}

	return names
}

// CallGetter reads name from the struct value v through a getter method
// without a backing field. ok is false when there is no such getter.
func (d *Descriptor) CallGetter(name string, v reflect.Value) (out reflect.Value, ok bool, err error) {
	m, ok := d.Getter(name)
	if !ok {
		return reflect.Value{}, false, nil
	}

	res, err := call(m, addressable(v))
	if err != nil {
		return reflect.Value{}, true, err
	}

	return res[0], true, nil
}

// ValueType returns the type read for the logical name: the getter result
// type, or the field type. ok is false when the name cannot be read.
func (d *Descriptor) ValueType(name string) (reflect.Type, bool) {
	if m, ok := d.Getter(name); ok {
		return m.Type.Out(0), true
	}

	if f, ok := d.Field(name); ok && f.Readable() {
		return f.Type, true
	}

	return nil, false
}
