package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/ingestion"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/session"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// AddApplicationRequest records a submitted application. Company and platform
// are derived from the URL when omitted. New records always start as Applied.
type AddApplicationRequest struct {
	URL      string `json:"url" validate:"required"`
	Company  string `json:"company,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// UpdateStatusRequest changes an application's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ApplicationResponse is one record and its storage index.
type ApplicationResponse struct {
	Index  int                     `json:"index"`
	Record types.ApplicationRecord `json:"record"`
}

// ApplicationListResponse is a filtered, newest-first listing.
type ApplicationListResponse struct {
	Applications []tracker.Entry `json:"applications"`
	Total        int             `json:"total"`
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filter := tracker.Filter{Platform: r.URL.Query().Get("platform")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := types.ParseStatus(raw)
		if err != nil {
			s.failure(w, &ErrValidation{Field: "status", Message: err.Error()})
			return
		}
		filter.Status = status
	}

	var resp ApplicationListResponse
	err := s.withSession(r, func(sess *session.Session) error {
		resp.Applications = sess.Tracker.Filter(filter)
		resp.Total = sess.Tracker.Len()
		return nil
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleAddApplication(w http.ResponseWriter, r *http.Request) {
	var req AddApplicationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	record := types.NewApplicationRecord(ingestion.Analyze(req.URL), s.now())
	if req.Company != "" {
		record.Company = req.Company
	}
	if req.Platform != "" {
		record.Platform = req.Platform
	}

	var index int
	err := s.withSession(r, func(sess *session.Session) error {
		var err error
		index, err = sess.Tracker.Add(r.Context(), record)
		return err
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, ApplicationResponse{Index: index, Record: record})
}

// handleUpdateApplicationStatus changes one record's status. The path index
// is a storage index unless ?display=true, in which case it is a position in
// the newest-first listing.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "index", Message: "must be an integer"})
		return
	}
	display, _ := strconv.ParseBool(r.URL.Query().Get("display"))

	var req UpdateStatusRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	status, err := types.ParseStatus(req.Status)
	if err != nil {
		s.failure(w, &ErrValidation{Field: "status", Message: err.Error()})
		return
	}

	var resp ApplicationResponse
	err = s.withSession(r, func(sess *session.Session) error {
		if display {
			storage, err := sess.Tracker.DisplayToStorageIndex(index)
			if err != nil {
				return err
			}
			index = storage
		}
		if err := sess.Tracker.UpdateStatus(r.Context(), index, status); err != nil {
			return err
		}
		resp = ApplicationResponse{Index: index, Record: sess.Tracker.List()[index]}
		return nil
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleClearApplications(w http.ResponseWriter, r *http.Request) {
	err := s.withSession(r, func(sess *session.Session) error {
		return sess.Tracker.Clear(r.Context())
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplicationSummary(w http.ResponseWriter, r *http.Request) {
	var summary tracker.Summary
	err := s.withSession(r, func(sess *session.Session) error {
		summary = sess.Tracker.Summary()
		return nil
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

func (s *Server) handleExportApplications(w http.ResponseWriter, r *http.Request) {
	var data []byte
	err := s.withSession(r, func(sess *session.Session) error {
		var err error
		data, err = sess.Tracker.Export()
		return err
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.attachment(w, "applications.json", data)
}

// handleImportApplications replaces the history with an exported document.
func (s *Server) handleImportApplications(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.failure(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	var summary tracker.Summary
	err = s.withSession(r, func(sess *session.Session) error {
		if err := sess.Tracker.Import(r.Context(), data); err != nil {
			return err
		}
		summary = sess.Tracker.Summary()
		return nil
	})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}
