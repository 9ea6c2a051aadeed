package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"bean-transformer/diagnostic"
	"bean-transformer/internal/descriptor"
	"bean-transformer/internal/match"
)

// Validator validates structs. Safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New returns a validator naming fields by their logical name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		tag, _, _ := strings.Cut(sf.Tag.Get(descriptor.TagName), ",")
		switch tag {
		case "-":
			return "-"
		case "":
			return match.LowerCamel(sf.Name)
		default:
			return tag
		}
	})

	return &Validator{validate: v}
}

// Engine exposes the underlying validator to register custom validations.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Validate returns an InvalidBeanError listing every violation of obj. Values
// other than structs and pointers to structs are always valid.
func (v *Validator) Validate(obj any) error {
	msgs, err := v.violations(obj)
	if err != nil || len(msgs) == 0 {
		return err
	}

	return &diagnostic.InvalidBeanError{Message: strings.Join(msgs, diagnostic.Separator), Err: err}
}

// ViolationMessages returns the violations of obj, nil when it is valid.
func (v *Validator) ViolationMessages(obj any) []string {
	msgs, _ := v.violations(obj)
	return msgs
}

func (v *Validator) violations(obj any) ([]string, error) {
	rv := reflect.ValueOf(obj)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}

		rv = rv.Elem()
	}

	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, nil
	}

	err := v.validate.Struct(obj)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	root := diagnostic.TypeName(rv.Type())
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		// the namespace starts with the struct name
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		msgs = append(msgs, root+"."+path+" "+message(fe))
	}

	return msgs, fieldErrs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "email":
		return "must be a well-formed email address"
	case "min", "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "len":
		return fmt.Sprintf("size must be %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
