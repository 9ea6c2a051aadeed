// Package descriptor is the reflective metadata provider of the transformer.
//
// A Descriptor lists the transformable fields of a struct type together with
// their accessors. A field's logical name is its `transform:"name"` tag, or the
// Go name in lower camel case. `transform:"-"` excludes a field. Getters are
// methods named X, GetX or IsX and setters SetX, WithX or a fluent X(v); all
// names are matched case-insensitively against the logical name.
//
// Constructors cannot be discovered by reflection, they are registered in a
// Registry together with the logical names of their parameters.
package descriptor
