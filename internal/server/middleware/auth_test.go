package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]uuid.UUID)}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (SessionIDGetter, error) {
	id, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(id), nil
}

type testClaims uuid.UUID

func (c testClaims) GetSessionID() uuid.UUID {
	return uuid.UUID(c)
}

func run(t *testing.T, validator TokenValidator, req *http.Request) (*httptest.ResponseRecorder, uuid.UUID, bool) {
	t.Helper()
	var got uuid.UUID
	called := false
	handler := SessionMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, err := GetSessionID(r)
		require.NoError(t, err)
		got = id
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, got, called
}

func TestSessionMiddleware(t *testing.T) {
	validator := newTestTokenValidator()
	sessionID := uuid.New()
	validator.validTokens["good-token"] = sessionID

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{"bearer header", "Bearer good-token", "", http.StatusOK},
		{"lowercase bearer", "bearer good-token", "", http.StatusOK},
		{"query parameter", "", "good-token", http.StatusOK},
		{"missing token", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", "", http.StatusUnauthorized},
		{"extra parts", "Bearer good-token extra", "", http.StatusUnauthorized},
		{"unknown token", "Bearer bad-token", "", http.StatusUnauthorized},
		{"header wins over query", "Bearer bad-token", "good-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/profile"
			if tt.query != "" {
				target += "?" + TokenQueryParam + "=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w, got, called := run(t, validator, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			if called {
				assert.Equal(t, sessionID, got)
			}
		})
	}
}

func TestGetSessionID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSessionID(req)
	assert.Error(t, err)
}

func TestWithSessionID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithSessionID(context.Background(), id))

	got, err := GetSessionID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
