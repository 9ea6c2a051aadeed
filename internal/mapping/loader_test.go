package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bean-transformer/options"
)

const sampleYAML = `
version: "1"
settings:
  primitive_type_conversion: true
  default_value_for_missing_field: true
  validation: false
121:
  id: identifier
  name: fullName
fields:
  - source: nestedObject.phoneNumbers
    target: [phoneNumbers, phones]
  - source: items[].code
    target: codes
skip: [age, nestedObject.phoneNumbers]
`

func TestParse(t *testing.T) {
	t.Parallel()

	mf, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NotNil(t, mf)

	assert.Equal(t, "1", mf.Version)

	require.NotNil(t, mf.Settings.PrimitiveTypeConversion)
	assert.True(t, *mf.Settings.PrimitiveTypeConversion)
	require.NotNil(t, mf.Settings.Validation)
	assert.False(t, *mf.Settings.Validation)
	assert.Nil(t, mf.Settings.FlatFieldNameTransformation)

	assert.Equal(t, map[string]string{"id": "identifier", "name": "fullName"}, mf.OneToOne)

	require.Len(t, mf.Fields, 2)
	assert.Equal(t, "nestedObject.phoneNumbers", mf.Fields[0].Source)
	assert.Equal(t, StringOrArray{"phoneNumbers", "phones"}, mf.Fields[0].Target)
	assert.Equal(t, StringOrArray{"codes"}, mf.Fields[1].Target)

	assert.Equal(t, StringOrArray{"age", "nestedObject.phoneNumbers"}, mf.Skip)
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	mf, err := Parse([]byte("skip: name\n"))
	require.NoError(t, err)

	assert.Equal(t, "1", mf.Version)
	assert.Equal(t, StringOrArray{"name"}, mf.Skip)
	assert.Empty(t, mf.Entries())
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("fields:\n  - source: id\n    target: {a: b}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a name or a list of names")

	_, err = Parse([]byte("skip: [name, \"\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name in list")
}

func TestEntries(t *testing.T) {
	t.Parallel()

	mf, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	entries := mf.Entries()
	require.Len(t, entries, 4)

	// 121 first, sorted by source
	assert.Equal(t, FieldMapping{Source: "id", Target: StringOrArray{"identifier"}}, entries[0])
	assert.Equal(t, FieldMapping{Source: "name", Target: StringOrArray{"fullName"}}, entries[1])
	assert.Equal(t, "nestedObject.phoneNumbers", entries[2].Source)
	assert.Equal(t, "items[].code", entries[3].Source)
}

func TestApply(t *testing.T) {
	t.Parallel()

	mf, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	s := options.NewSettings()
	s.SetFlag(options.FlagFlatFieldNameTransformation, true)
	require.NoError(t, mf.Apply(s))

	assert.True(t, s.Flag(options.FlagPrimitiveTypeConversion))
	assert.True(t, s.Flag(options.FlagDefaultValueForMissingField))
	assert.False(t, s.Flag(options.FlagValidation))
	assert.True(t, s.Flag(options.FlagFlatFieldNameTransformation), "unset settings are kept")
	assert.True(t, s.Flag(options.FlagDefaultValueForMissingPrimitiveField))

	assert.Equal(t, map[string]string{
		"identifier":   "id",
		"fullName":     "name",
		"phoneNumbers": "nestedObject.phoneNumbers",
		"phones":       "nestedObject.phoneNumbers",
		"codes":        "items[].code",
	}, s.FieldsNameMapping)

	assert.True(t, s.IsSkipped("age"))
	assert.True(t, s.IsSkipped("nestedObject.phoneNumbers"))
	assert.False(t, s.IsSkipped("name"))
}

func TestApplyInvalid(t *testing.T) {
	t.Parallel()

	mf := &MappingFile{Version: "1", OneToOne: map[string]string{"id": "identifier"}, Fields: []FieldMapping{
		{Source: "code", Target: StringOrArray{"identifier"}},
	}}

	err := mf.Apply(options.NewSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate_target")
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	mf, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, mf.Entries(), 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	mf, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := Marshal(mf)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, mf, again)
}

func TestParsePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    []PathSegment
		wantErr bool
	}{
		{path: "name", want: []PathSegment{{Name: "name"}}},
		{path: "nestedObject.phoneNumbers", want: []PathSegment{{Name: "nestedObject"}, {Name: "phoneNumbers"}}},
		{path: "items[].code", want: []PathSegment{{Name: "items", IsSlice: true}, {Name: "code"}}},
		{path: "", wantErr: true},
		{path: "a..b", wantErr: true},
		{path: "[]", wantErr: true},
		{path: "1abc", wantErr: true},
		{path: "a-b", wantErr: true},
		{path: "größe", want: []PathSegment{{Name: "größe"}}},
		{path: "_id2", want: []PathSegment{{Name: "_id2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Segments)
			assert.Equal(t, tt.path, got.String())
		})
	}
}

func TestFieldPath(t *testing.T) {
	t.Parallel()

	p := MustParsePath("items[].code")
	assert.False(t, p.IsSimple())
	assert.Equal(t, []PathSegment{{Name: "items", IsSlice: true}, {Name: "code"}}, p.Segments)
	assert.Equal(t, "items[].code", p.String())
	assert.True(t, MustParsePath("id").IsSimple())
	assert.Empty(t, FieldPath{}.String())
}
