package mapping

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"bean-transformer/options"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// Entries expands the 121 shorthand into field mappings, sorted by source
// path, followed by the explicit field mappings in file order.
func (mf *MappingFile) Entries() []FieldMapping {
	sources := make([]string, 0, len(mf.OneToOne))
	for source := range mf.OneToOne {
		sources = append(sources, source)
	}

	slices.Sort(sources)

	entries := make([]FieldMapping, 0, len(sources)+len(mf.Fields))
	for _, source := range sources {
		entries = append(entries, FieldMapping{
			Source: source,
			Target: StringOrArray{mf.OneToOne[source]},
		})
	}

	return append(entries, mf.Fields...)
}

// Apply validates mf and copies its flags, field mappings and skip list into s.
func (mf *MappingFile) Apply(s *options.Settings) error {
	if err := Validate(mf).Error(); err != nil {
		return fmt.Errorf("invalid mapping file: %w", err)
	}

	flags := []struct {
		flag  options.Flag
		value *bool
	}{
		{options.FlagPrimitiveTypeConversion, mf.Settings.PrimitiveTypeConversion},
		{options.FlagDefaultValueForMissingField, mf.Settings.DefaultValueForMissingField},
		{options.FlagDefaultValueForMissingPrimitiveField, mf.Settings.DefaultValueForMissingPrimitiveField},
		{options.FlagValidation, mf.Settings.Validation},
		{options.FlagFlatFieldNameTransformation, mf.Settings.FlatFieldNameTransformation},
	}

	for _, f := range flags {
		if f.value != nil {
			s.SetFlag(f.flag, *f.value)
		}
	}

	for _, fm := range mf.Entries() {
		if err := s.AddMapping(options.NewFieldMapping(fm.Source, fm.Target...)); err != nil {
			return err
		}
	}

	s.Skip(mf.Skip...)

	return nil
}
