package diagnostic

import (
	"fmt"
	"reflect"
	"strings"
)

// IllegalArgumentError reports a nil or empty argument passed to an API method.
type IllegalArgumentError struct {
	Argument string
	Message  string
}

func (e *IllegalArgumentError) Error() string {
	return fmt.Sprintf("illegal argument %q: %s", e.Argument, e.Message)
}

// NewIllegalArgument creates an IllegalArgumentError.
func NewIllegalArgument(argument, message string) *IllegalArgumentError {
	return &IllegalArgumentError{Argument: argument, Message: message}
}

// MissingFieldError reports a source field or path that could not be read.
type MissingFieldError struct {
	// Type is the type that was expected to declare the field.
	Type reflect.Type
	// Field is the missing path segment.
	Field string
	// Path is the full source path being resolved.
	Path string
	// Suggestions lists similarly named fields of Type.
	Suggestions []string
}

func (e *MissingFieldError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "no field %q found in %s", e.Field, TypeName(e.Type))
	if e.Path != "" && e.Path != e.Field {
		fmt.Fprintf(&b, " while resolving %q", e.Path)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}

	return b.String()
}

// MissingMethodError reports an absent accessor or builder method.
type MissingMethodError struct {
	Type    reflect.Type
	Method  string
	Message string
}

func (e *MissingMethodError) Error() string {
	msg := fmt.Sprintf("method %s not found on %s", e.Method, TypeName(e.Type))
	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

// TypeConversionError reports a value that could not be converted.
type TypeConversionError struct {
	From    reflect.Type
	To      reflect.Type
	Field   string
	Message string
	Err     error
}

func (e *TypeConversionError) Error() string {
	var b strings.Builder

	b.WriteString("cannot convert")
	if e.From != nil {
		fmt.Fprintf(&b, " %s", TypeName(e.From))
	}

	fmt.Fprintf(&b, " to %s", TypeName(e.To))
	if e.Field != "" {
		fmt.Fprintf(&b, " for field %q", e.Field)
	}

	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

// InvalidFunctionError reports a field transformer that failed or produced an
// unusable value.
type InvalidFunctionError struct {
	Field   string
	Message string
	Err     error
}

func (e *InvalidFunctionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "the transformer function defined for the field is not valid"
	}

	if e.Field != "" {
		msg = fmt.Sprintf("%s (field %q)", msg, e.Field)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *InvalidFunctionError) Unwrap() error {
	return e.Err
}

// InvalidBeanError reports a destination that could not be instantiated or did
// not pass validation.
type InvalidBeanError struct {
	Message string
	Err     error
}

func (e *InvalidBeanError) Error() string {
	return e.Message
}

func (e *InvalidBeanError) Unwrap() error {
	return e.Err
}

// NewInvalidBean creates an InvalidBeanError whose message is the cause's text.
func NewInvalidBean(err error) *InvalidBeanError {
	return &InvalidBeanError{Message: err.Error(), Err: err}
}

// NewConstructorMismatch builds the error raised when a constructor rejects the
// resolved arguments. The message names the expected and the actual signature,
// the destination's simple name and the source type, then the low-level error.
func NewConstructorMismatch(expected, found string, target, source reflect.Type, err error) *InvalidBeanError {
	cause := "<nil>"
	if err != nil {
		cause = err.Error()
	}

	msg := fmt.Sprintf("Constructor invoked with wrong arguments. Expected: %s; Found: %s. "+
		"Double check that each %s's field have the same type and name than the source object: %s "+
		"otherwise specify a transformer configuration. Error message: %s",
		expected, found, SimpleName(target), TypeName(source), cause)

	return &InvalidBeanError{Message: msg, Err: err}
}

// TypeName renders a type with its package qualifier, "<nil>" for nil.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// SimpleName renders a type without package qualifier or pointer stars.
func SimpleName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}
