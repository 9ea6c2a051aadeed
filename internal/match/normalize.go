package match

import (
	"strings"
	"unicode"
)

// Suffix tokens dropped by NormalizeIdentWithSuffixStrip, longest first.
var strippedSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// NormalizeIdent reduces an identifier to its lowercase letters and digits,
// so "OrderID", "order_id" and "order-id" all become "orderid".
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}

	return b.String()
}

// NormalizeIdentWithSuffixStrip is NormalizeIdent without one trailing id,
// ids, at, utc or timestamp token. A name made of the suffix alone is kept.
func NormalizeIdentWithSuffixStrip(s string) string {
	norm := NormalizeIdent(s)

	for _, suffix := range strippedSuffixes {
		if trimmed, ok := strings.CutSuffix(norm, suffix); ok && trimmed != "" {
			return trimmed
		}
	}

	return norm
}

// words splits an identifier at separators, at lower to upper case changes
// and before the last capital of an acronym followed by a lowercase letter:
//   - "OrderID" -> ["Order", "ID"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "order_id" -> ["order", "id"]
func words(s string) []string {
	var (
		res   []string
		start = -1
	)

	runes := []rune(s)

	flush := func(end int) {
		if start >= 0 && end > start {
			res = append(res, string(runes[start:end]))
		}

		start = -1
	}

	for i, r := range runes {
		switch {
		case isSeparator(r):
			flush(i)
			continue
		case start >= 0 && isBoundary(runes, i):
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return res
}

// isBoundary reports whether a new word starts at runes[i], i > 0.
func isBoundary(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// LowerCamel returns the logical name of a Go identifier: the first word is
// lowercased and the remaining ones are kept as written.
//   - "PhoneNumbers" -> "phoneNumbers"
//   - "ID" -> "id"
//   - "URLPath" -> "urlPath"
//   - "UserID" -> "userID"
func LowerCamel(s string) string {
	ws := words(s)
	if len(ws) == 0 {
		return ""
	}

	ws[0] = strings.ToLower(ws[0])

	return strings.Join(ws, "")
}

// EqualFold reports whether two identifiers are equal after normalization,
// so "order_id", "OrderID" and "orderId" all match.
func EqualFold(a, b string) bool {
	return NormalizeIdent(a) == NormalizeIdent(b)
}
