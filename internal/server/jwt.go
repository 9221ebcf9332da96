package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/config"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/middleware"
)

// SessionClaims represents session token claims.
type SessionClaims struct {
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// GetSessionID returns the session ID from the claims.
// This implements the middleware.SessionIDGetter interface.
func (c *SessionClaims) GetSessionID() uuid.UUID {
	return c.SessionID
}

// TokenService issues and validates signed session tokens.
type TokenService struct {
	config *config.SessionConfig
	now    func() time.Time
}

// NewTokenService creates a token service with the given configuration.
func NewTokenService(cfg *config.SessionConfig) *TokenService {
	return &TokenService{config: cfg, now: time.Now}
}

// AsTokenValidator returns a middleware.TokenValidator adapter for this service.
func (s *TokenService) AsTokenValidator() middleware.TokenValidator {
	return &tokenServiceValidator{service: s}
}

type tokenServiceValidator struct {
	service *TokenService
}

func (v *tokenServiceValidator) ValidateToken(tokenString string) (middleware.SessionIDGetter, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateToken issues a token for a session and returns it with its expiry.
func (s *TokenService) GenerateToken(sessionID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.ExpirationHours) * time.Hour)

	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a token and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.SessionID == uuid.Nil {
		return nil, fmt.Errorf("token has no session")
	}

	return claims, nil
}
