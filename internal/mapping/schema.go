package mapping

import "strings"

// MappingFile represents the root of a YAML mapping definition file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Settings overrides the transformer flags. Nil values are left as is.
	Settings SettingsBlock `yaml:"settings,omitempty"`

	// OneToOne is a simplified mapping syntax where keys are source paths
	// and values are destination fields.
	// Example: { "id": "identifier", "address.city": "city" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit field mappings, a source fanning out to one or
	// more destination fields. Applied after 121, so it wins on conflicts.
	Fields []FieldMapping `yaml:"fields,omitempty"`

	// Skip lists destination paths that should not be populated.
	Skip StringOrArray `yaml:"skip,omitempty"`
}

// SettingsBlock mirrors the transformer flags.
type SettingsBlock struct {
	PrimitiveTypeConversion              *bool `yaml:"primitive_type_conversion,omitempty"`
	DefaultValueForMissingField          *bool `yaml:"default_value_for_missing_field,omitempty"`
	DefaultValueForMissingPrimitiveField *bool `yaml:"default_value_for_missing_primitive_field,omitempty"`
	Validation                           *bool `yaml:"validation,omitempty"`
	FlatFieldNameTransformation          *bool `yaml:"flat_field_name_transformation,omitempty"`
}

// FieldMapping maps a source path to one or more destination fields.
type FieldMapping struct {
	// Source path (e.g., "nestedObject.phoneNumbers").
	Source string `yaml:"source"`

	// Target destination field names.
	Target StringOrArray `yaml:"target"`
}

// StringOrArray is a list that can be unmarshaled from a single string or an
// array of strings.
type StringOrArray []string

// PathSegment represents a parsed segment of a field path.
type PathSegment struct {
	// Name is the field name.
	Name string

	// IsSlice indicates this segment accesses slice elements (e.g., "Items[]").
	IsSlice bool
}

// FieldPath represents a parsed field path like "Items[].ProductID".
type FieldPath struct {
	Segments []PathSegment
}

// String returns the path as a string.
func (p FieldPath) String() string {
	var sb strings.Builder

	for i, seg := range p.Segments {
		if i > 0 {
			sb.WriteString(".")
		}

		sb.WriteString(seg.Name)

		if seg.IsSlice {
			sb.WriteString("[]")
		}
	}

	return sb.String()
}

// IsSimple returns true if this is a simple single-field path (no nesting, no slices).
func (p FieldPath) IsSimple() bool {
	return len(p.Segments) == 1 && !p.Segments[0].IsSlice
}
