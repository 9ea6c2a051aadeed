// Package mapping provides the YAML schema, parsing and structural validation
// of transformer mapping files.
//
// A mapping file pins the settings of a transformer in a reviewable form:
// flags, source-to-destination field mappings and the fields to skip.
//
// # Schema Overview
//
//	version: "1"
//	settings:
//	  primitive_type_conversion: true
//	  default_value_for_missing_field: true
//	  default_value_for_missing_primitive_field: true
//	  validation: false
//	  flat_field_name_transformation: false
//	# Simplified 1:1 mappings, source path: destination field
//	121:
//	  id: identifier
//	# Full field mappings, one source fans out to many destinations
//	fields:
//	  - source: nestedObject.phoneNumbers
//	    target: [phoneNumbers, phones]
//	# Destination paths left untouched
//	skip:
//	  - name
//	  - nestedObject.phoneNumbers
//
// Unset settings keep the transformer's current value.
//
// # Path Syntax
//
// Field paths support:
//   - Simple fields: "name"
//   - Nested fields: "address.street"
//   - Slice elements: "items[]"
//   - Nested slice fields: "items[].productId"
//
// Destination names in "121" and "fields" are field names, skip entries are
// dotted destination paths.
package mapping
