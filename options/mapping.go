package options

import (
	"strings"

	"bean-transformer/diagnostic"
)

// FieldMapping reads the destination fields from a source path. Source may be
// a dotted path into nested values ("nestedObject.phoneNumbers").
type FieldMapping struct {
	Source       string
	Destinations []string
}

func NewFieldMapping(source string, destinations ...string) FieldMapping {
	return FieldMapping{Source: source, Destinations: destinations}
}

// Validate checks that the source path and every destination are non-empty.
func (m FieldMapping) Validate() error {
	if strings.TrimSpace(m.Source) == "" {
		return diagnostic.NewIllegalArgument("source", "the source field path must not be empty")
	}

	if len(m.Destinations) == 0 {
		return diagnostic.NewIllegalArgument("destinations", "at least one destination field name is required")
	}

	for _, dst := range m.Destinations {
		if strings.TrimSpace(dst) == "" {
			return diagnostic.NewIllegalArgument("destinations", "destination field name must not be empty")
		}
	}

	return nil
}
