// Package classify decides how a destination struct is constructed.
//
//   - Mutable: every field can be set after allocating the zero value.
//   - Immutable: no field can be set, a registered constructor builds it.
//   - Mixed: a registered constructor populates the fields without a setter,
//     the remaining ones are set afterwards.
//   - Builder: the type implements descriptor.HasBuilder.
//
// The class type of a struct is a pure function of its declaration and is
// cached for the lifetime of the cache.
package classify
