// Package cache memoizes reflective lookups of the transformer.
//
// Entries live in an unbounded concurrent map and are grouped by key
// namespace ("ClassType-", "DestFieldName-", ...). A namespace or any other
// key prefix can be invalidated at once with RemoveMatchingKeyPrefix.
//
// A miss is never an error: callers recompute and Put the result.
package cache
