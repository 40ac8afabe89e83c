package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// invalidStatusMessage is shared by body and query validation.
const invalidStatusMessage = "Status must be a valid TaskStatus (TODO, IN_PROGRESS, DONE)"

// validationMessages maps "<json field>.<tag>" to the message returned to clients.
var validationMessages = map[string]string{
	"email.required":           "Email is required",
	"email.email":              "Please provide a valid email address",
	"name.required":            "Name is required",
	"name.max":                 "Name must not exceed 100 characters",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 8 characters long",
	"password.max":             "Password must not exceed 100 characters",
	"password.password":        "Password must contain at least one uppercase letter, one lowercase letter, and one number",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
	"title.required":           "Title is required",
	"title.min":                "Title is required",
	"status.taskstatus":        invalidStatusMessage,
}

// typeMessages maps a JSON field to the message used when the client sends
// the wrong JSON type for it.
var typeMessages = map[string]string{
	"email":           "Please provide a valid email address",
	"name":            "Name must be a string",
	"password":        "Password must be a string",
	"confirmPassword": "Please confirm your password",
	"title":           "Title must be a string",
	"description":     "Description must be a string",
	"status":          invalidStatusMessage,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// password checks character classes only; length is min/max's job.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return !errors.Is(domain.ValidatePassword(fl.Field().String()), domain.ErrPasswordTooWeak)
	})

	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return domain.IsValidTaskStatus(domain.TaskStatus(fl.Field().String()))
	})

	return v
}

// validateRequest runs struct validation and returns one FieldError per
// failing field, or nil.
func validateRequest(req interface{}) []shared.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []shared.FieldError{{Message: "Validation failed"}}
	}

	details := make([]shared.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msg, ok := validationMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		details = append(details, shared.FieldError{Field: fe.Field(), Message: msg})
	}
	return details
}

// decodeErrorDetails turns a JSON decoding failure into field errors where
// the failing field is known.
func decodeErrorDetails(err error) []shared.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		if msg, ok := typeMessages[field]; ok {
			return []shared.FieldError{{Field: field, Message: msg}}
		}
		return []shared.FieldError{{Field: field, Message: field + " has an invalid type"}}
	}
	return nil
}
