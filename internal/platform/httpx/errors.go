// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error codes carried by the response envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

const internalMessage = "internal server error"

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Message == "" {
			return ErrValidation.Error()
		}
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	msg := e.Message
	if msg == "" {
		msg = ErrValidation.Error()
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}

// Is lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Classify resolves err into its HTTP status and envelope code.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, CodeForbidden
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// RespondError maps domain errors to the JSON envelope.
func RespondError(w http.ResponseWriter, err error) {
	status, code := Classify(err)
	env := Envelope{Success: false, Code: code}
	if status == http.StatusInternalServerError {
		env.Error = internalMessage
	} else {
		env.Error = err.Error()
	}
	var verr *ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		env.Details = verr.Fields
	}
	JSON(w, status, env)
}
