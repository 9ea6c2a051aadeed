package options

//go:generate go tool stringer -type=Flag -output=flag_string.go

// Flag is a boolean transformer setting.
type Flag int

const (
	_ Flag = iota // skip zero value, use it as a default (invalid) value for Flag

	// FlagPrimitiveTypeConversion converts primitive values whose type differs
	// from the destination field's type.
	FlagPrimitiveTypeConversion
	// FlagDefaultValueForMissingField resolves a field absent from the source
	// to the destination type's zero value instead of failing.
	FlagDefaultValueForMissingField
	// FlagDefaultValueForMissingPrimitiveField resolves a nil value for a
	// primitive destination field to its zero value. When disabled the field
	// keeps its current value. Enabled by default.
	FlagDefaultValueForMissingPrimitiveField
	// FlagValidation validates the top level destination after construction.
	FlagValidation
	// FlagFlatFieldNameTransformation keys field transformers by the leaf
	// field name, applying them at every nesting level.
	FlagFlatFieldNameTransformation

	// FlagTotal is a constant that represents the total number of flags defined
	FlagTotal = int(iota)
)

// Default is the value a flag has on a fresh or reset Settings.
func (f Flag) Default() bool {
	return f == FlagDefaultValueForMissingPrimitiveField
}
