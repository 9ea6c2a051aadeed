package classify

import (
	"fmt"
	"reflect"
	"strings"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/cache"
	"bean-transformer/internal/descriptor"
)

//go:generate go tool stringer -type=ClassType -output=classtype_string.go

// ClassType is the construction strategy of a destination struct.
type ClassType int

const (
	_ ClassType = iota // skip zero value, use it as a default (invalid) value for ClassType

	Mutable
	Immutable
	Mixed
	Builder

	// ClassTypeTotal is a constant that represents the total number of class types defined
	ClassTypeTotal = int(iota)
)

// Classifier classifies struct types, caching the results.
type Classifier struct {
	provider *descriptor.Provider
	cache    *cache.Cache
}

func New(provider *descriptor.Provider, c *cache.Cache) *Classifier {
	return &Classifier{provider: provider, cache: c}
}

// Classify returns the class type of t, pointers are dereferenced. Immutable
// and Mixed types without a registered constructor are reported as an
// InvalidBeanError.
func (c *Classifier) Classify(t reflect.Type) (ClassType, error) {
	if t == nil {
		return 0, diagnostic.NewIllegalArgument("type", "must not be nil")
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return 0, diagnostic.NewIllegalArgument("type", fmt.Sprintf("%s is not a struct", t))
	}

	key := cache.Key(cache.ClassType, descriptor.TypeKey(t))

	ct, ok := cache.Get[ClassType](c.cache, key)
	if !ok {
		ct = Of(c.provider.Describe(t))
		c.cache.Put(key, ct)
	}

	if ct == Immutable || ct == Mixed {
		if _, ok := c.provider.Constructors.Lookup(t); !ok {
			d := c.provider.Describe(t)
			return ct, &diagnostic.InvalidBeanError{Message: fmt.Sprintf(
				"%s has fields without a setter (%s) and no registered constructor",
				diagnostic.TypeName(t), strings.Join(d.ImmutableFields(), ", "))}
		}
	}

	return ct, nil
}

// Of classifies the described type without caching.
func Of(d *descriptor.Descriptor) ClassType {
	if d.HasBuilder() {
		return Builder
	}

	immutable := len(d.ImmutableFields())
	switch {
	case immutable == 0:
		return Mutable
	case immutable == len(d.Fields):
		return Immutable
	default:
		return Mixed
	}
}
