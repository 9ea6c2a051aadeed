// Package maptransformer copies maps, remapping values between keys and
// rewriting keys and values with field transformers.
//
// Map entries are addressed by the fmt.Sprint form of their key. A field
// mapping from source key "a" to destination key "b" makes the value of entry
// "b" the value of "a"; keys are never renamed by a mapping, only by key
// transformers. Key and value transformers are looked up with the original
// key of the entry.
//
// TransformTo additionally converts keys and values to other types with a
// bean transformer, so values may be primitives of another type or structs
// with matching fields.
package maptransformer
