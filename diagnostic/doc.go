// Package diagnostic holds the error taxonomy surfaced by the transformer
// and a small collector for structured diagnostics.
//
// Every failure of a transform call is one of:
//   - IllegalArgumentError: a required argument is nil or empty
//   - MissingFieldError: a source field or path is absent and no default applies
//   - MissingMethodError: an accessor or a builder's Build method is absent
//   - TypeConversionError: no conversion is registered for a pair, or the input is malformed
//   - InvalidFunctionError: a field transformer failed or returned an unassignable value
//   - InvalidBeanError: instantiation or validation of the destination failed
//
// All of them are pointer types and are matched with errors.As.
package diagnostic
