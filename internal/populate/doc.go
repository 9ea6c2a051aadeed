// Package populate rebuilds values into a destination type: primitives are
// converted, pointers, slices, arrays and maps are walked recursively and
// structs are delegated to an ObjectFunc.
//
// Nil stays nil and empty stays empty; a populated container is always a new
// container, never the source one.
package populate
