package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ParsePath parses a dotted field path. A segment ending in "[]" reads the
// rest of the path from every element of a slice:
//
//	"name", "address.city", "orders[]", "orders[].lines[].qty"
//
// Segment names are identifiers; letters outside ASCII are accepted since
// map sources may use them as keys.
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, errors.New("empty path")
	}

	var fp FieldPath

	for part := range strings.SplitSeq(path, ".") {
		seg, err := parseSegment(part)
		if err != nil {
			return FieldPath{}, fmt.Errorf("invalid path %q: %w", path, err)
		}

		fp.Segments = append(fp.Segments, seg)
	}

	return fp, nil
}

func parseSegment(part string) (PathSegment, error) {
	if part == "" {
		return PathSegment{}, errors.New("empty segment")
	}

	name, isSlice := strings.CutSuffix(part, "[]")
	if name == "" {
		return PathSegment{}, errors.New("slice without field name")
	}

	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || i > 0 && unicode.IsDigit(r) {
			continue
		}

		return PathSegment{}, fmt.Errorf("invalid identifier %q", name)
	}

	return PathSegment{Name: name, IsSlice: isSlice}, nil
}

// MustParsePath is like ParsePath but panics on an invalid path.
func MustParsePath(path string) FieldPath {
	fp, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return fp
}
