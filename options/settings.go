package options

import (
	"maps"
	"strings"

	"bean-transformer/diagnostic"
	"bean-transformer/primitive"
)

// Settings holds the configuration of a transformer: field mappings, field
// transformers, the skip set and the boolean flags.
//
// Settings is not safe for concurrent mutation. Transformers hand a Clone to
// every transform call.
type Settings struct {
	// FieldsNameMapping maps a destination field name to the source path it is
	// read from.
	FieldsNameMapping map[string]string
	// FieldsTransformers maps a destination field key to its transformer. The
	// key is a dotted destination path, or a leaf name when
	// FlagFlatFieldNameTransformation is set.
	FieldsTransformers map[string]FieldTransformer
	// FieldsToSkip holds dotted destination paths left untouched.
	FieldsToSkip map[string]struct{}
	// Categories restricts the primitive conversions applied.
	Categories primitive.CategoryEnum

	flags [FlagTotal]bool
}

// NewSettings returns settings with every flag at its default.
func NewSettings() *Settings {
	s := &Settings{}
	s.Reset()

	return s
}

// Reset clears mappings, transformers and the skip set and restores the flags
// and categories to their defaults.
func (s *Settings) Reset() {
	s.FieldsNameMapping = map[string]string{}
	s.FieldsTransformers = map[string]FieldTransformer{}
	s.FieldsToSkip = map[string]struct{}{}
	s.Categories = primitive.CategoryAll

	for f := Flag(1); int(f) < FlagTotal; f++ {
		s.UnsetFlag(f)
	}
}

func (s *Settings) Flag(f Flag) bool {
	return s.flags[f]
}

func (s *Settings) SetFlag(f Flag, value bool) {
	s.flags[f] = value
}

// UnsetFlag restores f to its default.
func (s *Settings) UnsetFlag(f Flag) {
	s.flags[f] = f.Default()
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.FieldsNameMapping = maps.Clone(s.FieldsNameMapping)
	c.FieldsTransformers = maps.Clone(s.FieldsTransformers)
	c.FieldsToSkip = maps.Clone(s.FieldsToSkip)

	return &c
}

// AddMapping registers m for every one of its destinations.
func (s *Settings) AddMapping(m FieldMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}

	for _, dst := range m.Destinations {
		s.FieldsNameMapping[dst] = m.Source
	}

	return nil
}

// AddTransformer registers t under each of its field keys, replacing any
// transformer previously registered for the same key.
func (s *Settings) AddTransformer(t FieldTransformer) error {
	if len(t.Fields) == 0 {
		return diagnostic.NewIllegalArgument("fields", "at least one destination field name is required")
	}

	for _, name := range t.Fields {
		if strings.TrimSpace(name) == "" {
			return diagnostic.NewIllegalArgument("fields", "destination field name must not be empty")
		}

		s.FieldsTransformers[name] = t
	}

	return nil
}

// Skip adds the given destination paths to the skip set.
func (s *Settings) Skip(paths ...string) {
	for _, p := range paths {
		s.FieldsToSkip[p] = struct{}{}
	}
}

// IsSkipped reports whether the destination path is in the skip set.
func (s *Settings) IsSkipped(path string) bool {
	_, ok := s.FieldsToSkip[path]
	return ok
}

// Transformer returns the transformer for a destination field, keyed by path
// or, in flat mode, by leaf name.
func (s *Settings) Transformer(path, leaf string) (FieldTransformer, bool) {
	t, ok := s.FieldsTransformers[s.TransformerKey(path, leaf)]

	return t, ok
}

// TransformerKey is the key Transformer looks up for the given field.
func (s *Settings) TransformerKey(path, leaf string) string {
	if s.Flag(FlagFlatFieldNameTransformation) {
		return leaf
	}

	return path
}
