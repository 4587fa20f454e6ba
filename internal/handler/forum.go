package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/festival-events/internal/model"
)

// ListMessages handles GET /events/{id}/forum?page=&limit=
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out, err := h.forum.List(r.Context(), identity(r), chi.URLParam(r, "id"), page, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// PostMessage handles POST /events/{id}/forum
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req model.PostMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.forum.Post(r.Context(), identity(r), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// TogglePin handles POST /forum/{messageId}/pin
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	msg, err := h.forum.TogglePin(r.Context(), identity(r), chi.URLParam(r, "messageId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// DeleteMessage handles DELETE /forum/{messageId}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := h.forum.Delete(r.Context(), identity(r), chi.URLParam(r, "messageId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// React handles POST /forum/{messageId}/react
func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	var req model.ReactRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.forum.React(r.Context(), identity(r), chi.URLParam(r, "messageId"), req.Emoji)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// StreamForum handles GET /events/{id}/forum/stream
// Upgrades to a websocket that receives every forum change for the event.
func (h *Handler) StreamForum(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	if err := h.forum.OpenStream(r.Context(), identity(r), eventID); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.hub.Handler(eventID, h.heartbeat).ServeHTTP(w, r)
}
