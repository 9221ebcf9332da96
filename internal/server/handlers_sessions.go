package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/middleware"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/server/ws"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
)

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}

	token, expiresAt, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.failure(w, err)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.failure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionEvents upgrades to a websocket that streams the session's
// tracker events.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		s.failure(w, err)
		return
	}
	// Restores the session if needed so its tracker publishes to the hub.
	if _, err := s.sessions.Get(r.Context(), id); err != nil {
		s.failure(w, err)
		return
	}
	ws.Serve(s.hub, id, w, r)
}

// withSession runs fn with exclusive access to the caller's session.
func (s *Server) withSession(r *http.Request, fn func(sess *session.Session) error) error {
	id, err := middleware.GetSessionID(r)
	if err != nil {
		return err
	}
	return s.sessions.With(r.Context(), id, fn)
}
