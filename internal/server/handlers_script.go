package server

import (
	"net/http"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/ingestion"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/platform"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/rendering"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// URLRequest is the body of /analyze and /script.
type URLRequest struct {
	URL string `json:"url" validate:"required"`
}

// PlatformInfo describes one detectable platform.
type PlatformInfo struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Supported bool   `json:"supported"`
}

// ScriptResponse is the result of script generation. Unsupported platforms
// still answer 200 with Supported false and the placeholder script.
type ScriptResponse struct {
	Posting         types.JobPosting `json:"posting"`
	Supported       bool             `json:"supported"`
	Script          string           `json:"script"`
	MissingRequired []string         `json:"missingRequired"`
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, _ *http.Request) {
	ids := platform.All()
	platforms := make([]PlatformInfo, 0, len(ids))
	for _, id := range ids {
		platforms = append(platforms, PlatformInfo{Name: id.String(), Icon: id.Icon(), Supported: id.Supported()})
	}
	s.jsonResponse(w, http.StatusOK, platforms)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ingestion.Analyze(req.URL))
}

// handleGenerateScript renders the auto-fill script for the session profile.
// Missing required fields are reported but do not block generation.
func (s *Server) handleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, err)
		return
	}

	profile, err := s.profileSnapshot(r, nil)
	if err != nil {
		s.failure(w, err)
		return
	}

	posting := ingestion.Analyze(req.URL)
	id, _ := platform.Parse(posting.Platform)

	script, err := s.generator.Generate(id, profile, req.URL)
	if err != nil {
		s.failure(w, err)
		return
	}

	missing := profile.MissingRequired()
	if missing == nil {
		missing = []string{}
	}
	s.jsonResponse(w, http.StatusOK, ScriptResponse{
		Posting:         posting,
		Supported:       !rendering.IsUnsupported(script),
		Script:          script,
		MissingRequired: missing,
	})
}
