// Package validation renders payload constraint failures as a field→message
// map, the shape the API returns with a 422 status.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to a human-readable message for that field.
// It implements error so it can travel up through the service layer.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validate uses the "binding" tag so the same constraints drive both gin's
// request binding and the explicit checks run on merged update documents.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// Struct validates s against its binding tags and reports failures as
// Errors keyed by the JSON-ish lowercased field name. A nil return means
// the document is valid.
func Struct(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"payload": err.Error()}
	}
	return FromFieldErrors(fieldErrs)
}

// FromFieldErrors converts validator field errors (whether raised here or
// by gin's ShouldBindJSON) into the field→message map.
func FromFieldErrors(fieldErrs validator.ValidationErrors) Errors {
	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldKey(fe.Field())] = message(fe)
	}
	return out
}

func fieldKey(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "eqfield":
		return fmt.Sprintf("Must match %s", fieldKey(fe.Param()))
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "url":
		return "Must be a valid URL"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
