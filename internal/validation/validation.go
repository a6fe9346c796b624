// Package validation binds JSON request bodies into request structs and
// validates them with go-playground/validator struct tags.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single invalid field, e.g. {"field": "client_name", "error": "is required"}
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// RequestError is returned when a request body cannot be decoded or fails validation.
type RequestError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Error
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes a JSON body into payload (a pointer to a struct) and
// validates it. Any failure is returned as a *RequestError.
func DecodeJSON(body io.Reader, payload any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(payload); err != nil {
		return decodeError(err)
	}
	// the body must hold exactly one JSON value
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return decodeError(err)
		}
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Invalid JSON body",
		}
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("failed to validate request: %w", err)
		}
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Validation failed",
			Fields:  fieldErrors(validationErrors),
		}
	}

	return nil
}

func decodeError(err error) *RequestError {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Request body is required",
		}
	case errors.As(err, &maxBytesErr):
		return &RequestError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("Request body must not exceed %d bytes", maxBytesErr.Limit),
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Validation failed",
			Fields: []FieldError{{
				Field: field,
				Error: fmt.Sprintf("must be of type %s", typeErr.Type.Kind()),
			}},
		}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Invalid JSON body",
		}
	default:
		return &RequestError{
			Status:  http.StatusUnprocessableEntity,
			Message: "Invalid request body",
		}
	}
}

func fieldErrors(validationErrors validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("failed %s", fe.Tag())
			}
		}
		fields = append(fields, FieldError{Field: fe.Field(), Error: msg})
	}
	return fields
}
