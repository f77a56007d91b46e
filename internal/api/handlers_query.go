package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"manualqa/internal/docstore"
	"manualqa/internal/extract"
)

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", "", http.StatusBadRequest)
		return
	}

	resp, err := s.querier.Answer(r.Context(), req.Query)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeQueryError(w http.ResponseWriter, err error) {
	var rateErr *extract.RateLimitError
	var transportErr *extract.TransportError
	switch {
	case errors.Is(err, docstore.ErrNoDocument):
		jsonError(w, "no document loaded", "upload a document before querying", http.StatusNotFound)
	case errors.As(err, &rateErr), errors.As(err, &transportErr):
		jsonError(w, "model service unavailable", err.Error(), http.StatusBadGateway)
	default:
		jsonError(w, "query failed", err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}
