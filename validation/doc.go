// Package validation checks destination values against their `validate`
// struct tags using github.com/go-playground/validator.
//
// Violations are reported as "<pkg.Type>.<field path> <message>", with field
// paths made of logical field names, and joined with "; " in the error.
package validation
