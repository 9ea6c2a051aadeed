// Package transformer copies and converts Go values between struct types
// whose fields share logical names.
//
// A Transformer is configured once with the fluent methods and then used
// concurrently:
//
//	tr := transformer.New(transformer.WithLogger(logger)).
//		WithFieldMapping(options.NewFieldMapping("id", "identifier")).
//		SkipTransformationForField("password")
//	if err := tr.Err(); err != nil {
//		return err
//	}
//
//	dto, err := transformer.To[UserDTO](tr, user)
//
// Every destination field is resolved from the source field with the same
// logical name (the `transform` tag or the lower camel case Go name), a
// mapped source path, or a field transformer. Nested structs, slices, arrays
// and maps are rebuilt recursively and primitive values are converted to the
// field type.
//
// Destination structs are built according to their shape: through setters
// and exported fields, through a registered constructor when some fields can
// only be set at construction, or through a builder when the type implements
// HasBuilder.
package transformer
