// Package httpx provides HTTP handlers and utilities for the intake API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/hireloop/intake-api/internal/domain/model"
	"github.com/hireloop/intake-api/internal/service"
)

// ParsingJobHandlers provides HTTP handlers for resume intake operations.
type ParsingJobHandlers struct {
	Svc *service.ParsingJobService
}

// Submit handles HTTP requests to enqueue a resume for extraction.
// POST /api/resumes/parse.
func (h *ParsingJobHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitParsingJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"parsing_job_id": job.ID,
		"status":         job.Status,
	})
}

// Status handles HTTP requests for the status of a parsing job.
// GET /api/resumes/parse/status?parsing_job_id=<id>.
func (h *ParsingJobHandlers) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("parsing_job_id")
	if jobID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("parsing_job_id is required")},
		)
		return
	}

	status, err := h.Svc.GetStatus(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"parsing_job": status})
}

// Stats handles HTTP requests for parsing job counts per status.
// GET /api/resumes/parse/stats.
func (h *ParsingJobHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
