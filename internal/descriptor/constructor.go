package descriptor

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"bean-transformer/diagnostic"
	"bean-transformer/utils"
)

// Constructor is a registered all-args constructor of a struct type.
//
// Supports functions:
//   - func(args...) T
//   - func(args...) *T
//   - func(args...) (T, error)
//   - func(args...) (*T, error)
type Constructor struct {
	// Type is the struct type built.
	Type   reflect.Type
	Params []reflect.Type
	// Name is "pkg.Func".
	Name string

	id         uint64
	names      []string
	fn         reflect.Value
	returnsPtr bool
	hasErr     bool
}

// NewConstructor inspects fn. names holds the logical destination field name
// of each parameter in order; it may be empty or contain empty strings for
// unresolved parameters.
func NewConstructor(fn any, names ...string) (*Constructor, error) {
	if fn == nil {
		return nil, diagnostic.NewIllegalArgument("constructor", "must not be nil")
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func || fnType.IsVariadic() {
		return nil, diagnostic.NewIllegalArgument("constructor", fmt.Sprintf("%s is not a non-variadic function", fnType))
	}

	if len(names) != 0 && len(names) != fnType.NumIn() {
		return nil, diagnostic.NewIllegalArgument("names",
			fmt.Sprintf("got %d parameter names for %d parameters", len(names), fnType.NumIn()))
	}

	c := &Constructor{
		id:    nextConstructorID.Add(1),
		fn:    fnVal,
		names: make([]string, fnType.NumIn()),
	}
	copy(c.names, names)

	switch {
	case fnType.NumOut() == 2 && fnType.Out(1) == errorType:
		c.hasErr = true
	case fnType.NumOut() != 1:
		return nil, diagnostic.NewIllegalArgument("constructor", fmt.Sprintf("%s must return T, *T and an optional error", fnType))
	}

	c.Type = fnType.Out(0)
	if c.Type.Kind() == reflect.Pointer {
		c.returnsPtr = true
		c.Type = c.Type.Elem()
	}

	if c.Type.Kind() != reflect.Struct {
		return nil, diagnostic.NewIllegalArgument("constructor", fmt.Sprintf("%s does not build a struct", fnType))
	}

	for i := range fnType.NumIn() {
		c.Params = append(c.Params, fnType.In(i))
	}

	c.Name = utils.QualifiedName(fnVal)

	return c, nil
}

var nextConstructorID atomic.Uint64

// Key identifies this registration in cache keys, "<TypeKey>-c<n>". Every
// NewConstructor call yields a new key, so entries derived from the
// parameter names of one registration never serve another.
func (c *Constructor) Key() string {
	return TypeKey(c.Type) + "-c" + strconv.FormatUint(c.id, 10)
}

// NamesAvailable reports whether every parameter has a logical name.
func (c *Constructor) NamesAvailable() bool {
	for _, n := range c.names {
		if n == "" {
			return false
		}
	}

	return true
}

// ParamName returns the logical name of parameter i, empty when unresolved.
func (c *Constructor) ParamName(i int) string {
	return c.names[i]
}

// Signature renders the constructor with its parameter types, e.g.
// "model.NewUser(string, int)".
func (c *Constructor) Signature() string {
	return Signature(c.Name, c.Params)
}

// Signature renders name with the given argument types.
func Signature(name string, types []reflect.Type) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, diagnostic.TypeName(t))
	}

	return name + "(" + strings.Join(parts, ", ") + ")"
}

// Call invokes the constructor and returns a pointer to the built struct.
// Wrong arity, unassignable arguments, panics and returned errors are reported
// as errors.
func (c *Constructor) Call(args []reflect.Value) (ptr reflect.Value, err error) {
	if len(args) != len(c.Params) {
		return reflect.Value{}, fmt.Errorf("wrong number of arguments: want %d, got %d", len(c.Params), len(args))
	}

	for i, arg := range args {
		if !arg.IsValid() {
			args[i] = reflect.Zero(c.Params[i])
			continue
		}

		if !arg.Type().AssignableTo(c.Params[i]) {
			return reflect.Value{}, fmt.Errorf("argument %d: %s is not assignable to %s", i, arg.Type(), c.Params[i])
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", c.Name, r)
		}
	}()

	out := c.fn.Call(args)
	if c.hasErr && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	if !c.returnsPtr {
		ptr = reflect.New(c.Type)
		ptr.Elem().Set(out[0])

		return ptr, nil
	}

	if out[0].IsNil() {
		return reflect.Value{}, fmt.Errorf("%s returned nil", c.Name)
	}

	return out[0], nil
}

// Registry holds the constructors registered per struct type.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[reflect.Type]*Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: map[reflect.Type]*Constructor{}}
}

// Register adds fn as the constructor of the struct type it builds, replacing
// any previous one.
func (r *Registry) Register(fn any, names ...string) (*Constructor, error) {
	c, err := NewConstructor(fn, names...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctors[c.Type] = c

	return c, nil
}

// Lookup returns the constructor of t, pointers are dereferenced.
func (r *Registry) Lookup(t reflect.Type) (*Constructor, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.ctors[t]

	return c, ok
}
