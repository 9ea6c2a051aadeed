// Package match provides identifier normalization, logical field names,
// edit distance similarity and candidate ranking used to resolve source
// fields by name and to suggest alternatives for missing ones.
//
// Key functions:
//   - LowerCamel: derives a logical field name from a Go identifier
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - EditDistance / Similarity: score how close two names are
//   - RankCandidates / Suggestions: rank known names against a missing one
package match
