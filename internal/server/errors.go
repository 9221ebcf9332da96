// Package server provides the HTTP API for profile editing, script generation
// and application tracking, scoped per session.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrImportFailed),
		errors.Is(err, types.ErrUnknownProfileKey),
		errors.Is(err, tracker.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, tracker.ErrIndexOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage flattens validator errors into the first failing field.
func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fe.Tag()}
	}
	return err
}
