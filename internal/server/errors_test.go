package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "url", Message: "required"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{Field: "body"}), http.StatusBadRequest},
		{"import failed", fmt.Errorf("%w: bad json", types.ErrImportFailed), http.StatusBadRequest},
		{"unknown key", fmt.Errorf("%w: nickname", types.ErrUnknownProfileKey), http.StatusBadRequest},
		{"invalid status", fmt.Errorf("%w: %q", tracker.ErrInvalidStatus, "Ghosted"), http.StatusBadRequest},
		{"session not found", session.ErrSessionNotFound, http.StatusNotFound},
		{"index out of range", fmt.Errorf("%w: 3", tracker.ErrIndexOutOfRange), http.StatusNotFound},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestValidationMessage(t *testing.T) {
	type request struct {
		URL string `validate:"required"`
	}
	err := validator.New().Struct(request{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	converted := validationMessage(err)
	var verr *ErrValidation
	require.ErrorAs(t, converted, &verr)
	assert.Equal(t, "URL", verr.Field)
	assert.Equal(t, "required", verr.Message)

	plain := errors.New("plain")
	assert.Same(t, plain, validationMessage(plain))
}
