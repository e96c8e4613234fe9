package httpx

import (
	"net/http"

	"github.com/hireloop/intake-api/internal/domain/model"
	"github.com/hireloop/intake-api/internal/service"
)

// SearchSummaryHandlers provides HTTP handlers for candidate search summaries.
type SearchSummaryHandlers struct {
	Svc *service.SearchSummaryService
}

// Summarize handles HTTP requests for a candidate match summary.
// POST /api/candidates/search-summary. Requires authentication.
func (h *SearchSummaryHandlers) Summarize(w http.ResponseWriter, r *http.Request) {
	var req model.SearchSummaryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Svc.Summarize(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
