// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/i18n"
	"github.com/Shivanand-hulikatti/festival-events/internal/model"
	"github.com/Shivanand-hulikatti/festival-events/internal/service"
	"github.com/Shivanand-hulikatti/festival-events/internal/stream"
)

// Options wires the handler to the services it fronts.
type Options struct {
	Events        *service.EventService
	Registrations *service.RegistrationService
	Forum         *service.ForumService
	Feedback      *service.FeedbackService
	Hub           *stream.Hub
	Heartbeat     time.Duration
	Translator    *i18n.Translator
}

// Handler holds all HTTP handlers for the festival API.
type Handler struct {
	events    *service.EventService
	regs      *service.RegistrationService
	forum     *service.ForumService
	feedback  *service.FeedbackService
	hub       *stream.Hub
	heartbeat time.Duration
	tr        *i18n.Translator
}

// New constructs a Handler.
func New(opts Options) *Handler {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 25 * time.Second
	}
	return &Handler{
		events:    opts.Events,
		regs:      opts.Registrations,
		forum:     opts.Forum,
		feedback:  opts.Feedback,
		hub:       opts.Hub,
		heartbeat: opts.Heartbeat,
		tr:        opts.Translator,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err in the caller's language. Anything that is not an
// *apperr.Error is logged and reported as a bare 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	locale := h.tr.Match(r.Header.Get("Accept-Language")).String()
	w.Header().Set("Content-Language", locale)

	e, ok := apperr.As(err)
	if !ok {
		log.Printf("handler: %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error: h.tr.T(locale, "internal_error", nil),
			Code:  "internal_error",
		})
		return
	}
	writeJSON(w, e.Kind.HTTPStatus(), model.ErrorResponse{
		Error: h.tr.Error(locale, e),
		Code:  e.Code,
		Field: e.Field,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.ErrInvalidRequest.Wrap(err)
	}
	return nil
}

// identity returns the caller. Every route behind auth.Middleware has one.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.ErrInvalidRequest.WithField(name)
	}
	return n, nil
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
