package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// SubmitFeedback handles POST /events/{id}/feedback
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req model.FeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	fb, err := h.feedback.Submit(r.Context(), identity(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

// FeedbackSummary handles GET /events/{id}/feedback
func (h *Handler) FeedbackSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.feedback.Summary(r.Context(), identity(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
