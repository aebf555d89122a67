package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/orgpulse/orgpulse/analyzer"
)

type analyzeRequest struct {
	Companies []analyzer.CompanyInput `json:"companies" validate:"required,min=1"`
	Token     string                  `json:"token" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "companies (non-empty list) and token are required"})
		return
	}

	stream, err := newSSEStream(w)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -s.cfg.WindowDays)
	s.log.Info().Int("companies", len(req.Companies)).Time("since", since).Msg("starting batch analysis")

	// The batch runs on the server's base context, not the request's:
	// a consumer disconnect must not cancel in-flight analyses.
	runner := s.newRunner(req.Token)
	runner.Run(s.base, req.Companies, since, stream.Send)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
