// Package engine transforms a source value into a destination type.
//
// For every destination struct the engine classifies the type, resolves the
// value of each field from the source and hands the values to the matching
// construction strategy. Field resolution, in order:
//
//  1. a field whose dotted path is in the skip set is left untouched;
//  2. the source path is the mapped path of the field, or its name;
//  3. a supplier transformer ignores the source, any other reads it, a
//     missing source field is nil when a transformer or the default policy
//     applies;
//  4. nested structs and containers are rebuilt recursively, a nil primitive
//     gets its zero value;
//  5. primitives are converted to the field type, then the transformer runs.
package engine
