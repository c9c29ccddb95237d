package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is a single failed rule, reported under the field's JSON name
type FieldError struct {
	Field   string
	Message string
}

// Validator defines the interface for validation operations
type Validator interface {
	// ValidateStruct returns field errors in struct declaration order, or nil
	ValidateStruct(s any) []FieldError
	// ValidateVar checks a single value against a tag such as "email"
	ValidateVar(field any, tag string) error
}

// validatorImpl implements the Validator interface
type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a go-playground validator that reports JSON field names
func NewValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &validatorImpl{
		validate: v,
	}
}

// ValidateStruct validates a struct and returns field-specific errors
func (v *validatorImpl) ValidateStruct(s any) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		out = append(out, FieldError{
			Field:   fieldErr.Field(),
			Message: formatValidationError(fieldErr, prettifyFieldName(fieldErr.Field())),
		})
	}

	return out
}

// ValidateVar validates a single variable
func (v *validatorImpl) ValidateVar(field any, tag string) error {
	return v.validate.Var(field, tag)
}

// ValidateStruct validates a struct and returns field-specific errors (package-level function for backward compatibility)
func ValidateStruct(s any) []FieldError {
	return NewValidator().ValidateStruct(s)
}

// ToMap flattens field errors keyed by field name, first message per field wins
func ToMap(errs []FieldError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := m[e.Field]; !ok {
			m[e.Field] = e.Message
		}
	}
	return m
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// formatValidationError returns a more descriptive error message based on the validation tag
func formatValidationError(err validator.FieldError, fieldName string) string {
	switch err.Tag() {
	case "required":
		return fieldName + " is required"
	case "email":
		return fieldName + " must be a valid email address"
	case "min":
		return fieldName + " must be at least " + err.Param() + " characters long"
	case "max":
		return fieldName + " must be less than " + err.Param() + " characters"
	case "len":
		return fieldName + " must be exactly " + err.Param() + " characters long"
	case "numeric":
		return fieldName + " must be a numeric value"
	case "gt":
		return fieldName + " must be greater than " + err.Param()
	case "gte":
		return fieldName + " must be greater than or equal to " + err.Param()
	case "lte":
		return fieldName + " must be less than or equal to " + err.Param()
	case "oneof":
		return fieldName + " must be one of the following: " + err.Param()
	default:
		return fieldName + " is invalid"
	}
}

// prettifyFieldName turns snake_case, camelCase or PascalCase into a sentence-cased label
func prettifyFieldName(field string) string {
	var result []rune
	for i, r := range field {
		switch {
		case r == '_':
			result = append(result, ' ')
			continue
		case i > 0 && r >= 'A' && r <= 'Z' && field[i-1] >= 'a' && field[i-1] <= 'z':
			result = append(result, ' ')
		}
		result = append(result, r)
	}

	words := strings.Fields(string(result))
	if len(words) == 0 {
		return field
	}
	words[0] = cases.Title(language.Und, cases.NoLower).String(words[0])
	for i := 1; i < len(words); i++ {
		// keep acronyms such as "ID" intact
		if strings.ToUpper(words[i]) != words[i] {
			words[i] = strings.ToLower(words[i])
		}
	}
	return strings.Join(words, " ")
}
