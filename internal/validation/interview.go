package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blockedby/interview-list/internal/models"
)

// ErrRequiredField is the message shown under an empty required input.
const ErrRequiredField = "This field is required"

// FormError maps a json field name to the message shown next to it.
type FormError struct {
	Fields map[string]string
}

// Error implements error.
func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid interview: " + strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names so messages line up with form fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// ValidateInterviewInput checks the add/edit interview form.
// The salary range is not checked for min <= max.
func ValidateInterviewInput(in models.InterviewInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := &FormError{Fields: make(map[string]string, len(verrs))}
	for _, fieldErr := range verrs {
		fe.Fields[fieldErr.Field()] = messageFor(fieldErr)
	}
	return fe
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return ErrRequiredField
	case "url":
		return "Please enter a valid link"
	case "min":
		if fe.Kind() == reflect.Int {
			return "Must not be negative"
		}
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "oneof":
		return "Unknown status"
	default:
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
}
