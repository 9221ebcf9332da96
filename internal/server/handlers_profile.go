package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// ProfileResponse carries the profile and the required keys still empty.
type ProfileResponse struct {
	Profile         *types.Profile `json:"profile"`
	MissingRequired []string       `json:"missingRequired"`
}

func newProfileResponse(p *types.Profile) ProfileResponse {
	missing := p.MissingRequired()
	if missing == nil {
		missing = []string{}
	}
	return ProfileResponse{Profile: p, MissingRequired: missing}
}

// profileSnapshot returns a copy of the profile safe to encode after the session is released.
func (s *Server) profileSnapshot(r *http.Request, mutate func(sess *session.Session) error) (*types.Profile, error) {
	var profile *types.Profile
	err := s.withSession(r, func(sess *session.Session) error {
		if mutate != nil {
			if err := mutate(sess); err != nil {
				return err
			}
		}
		profile = sess.Profile.Clone()
		return nil
	})
	return profile, err
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileSnapshot(r, nil)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newProfileResponse(profile))
}

// handleUpdateProfile sets fixed profile keys from a flat JSON object. The
// update is applied atomically: any unknown key or invalid value rejects all.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&fields); err != nil {
		s.failure(w, &ErrValidation{Field: "body", Message: "expected an object of string values"})
		return
	}

	profile, err := s.profileSnapshot(r, func(sess *session.Session) error {
		updated := sess.Profile.Clone()
		for key, value := range fields {
			if err := updated.Set(key, value); err != nil {
				return err
			}
		}
		if err := updated.Validate(); err != nil {
			return validationMessage(err)
		}
		sess.Profile = updated
		return nil
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newProfileResponse(profile))
}

func (s *Server) handleResetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileSnapshot(r, func(sess *session.Session) error {
		sess.Profile.Reset()
		return nil
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newProfileResponse(profile))
}

// handleImportProfile merges an exported profile document into the session profile.
func (s *Server) handleImportProfile(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	profile, err := s.profileSnapshot(r, func(sess *session.Session) error {
		return sess.Profile.Merge(data)
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newProfileResponse(profile))
}

func (s *Server) handleExportProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profileSnapshot(r, nil)
	if err != nil {
		s.failure(w, err)
		return
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		s.failure(w, fmt.Errorf("failed to marshal profile: %w", err))
		return
	}
	s.attachment(w, "profile.json", data)
}
