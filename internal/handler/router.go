package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
)

// NewRouter builds the API router. Everything but /health requires a
// bearer token accepted by v.
func NewRouter(h *Handler, v *auth.Verifier) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)
	r.Use(CORS)

	r.Get("/health", HealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(v, h.writeError))

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.CreateEvent)
			r.Get("/", h.ListEvents)
			r.Get("/mine", h.ListMyEvents)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEvent)
				r.Patch("/", h.UpdateEvent)
				r.Delete("/", h.DeleteEvent)
				r.Put("/form", h.ReplaceForm)

				r.Post("/register", h.Register)
				r.Get("/registrations", h.ListRegistrations)

				r.Get("/forum", h.ListMessages)
				r.Post("/forum", h.PostMessage)
				r.Get("/forum/stream", h.StreamForum)

				r.Post("/feedback", h.SubmitFeedback)
				r.Get("/feedback", h.FeedbackSummary)
			})
		})

		r.Get("/registrations/mine", h.MyRegistrations)
		r.Post("/registrations/{id}/cancel", h.CancelRegistration)

		r.Post("/tickets/checkin", h.CheckIn)
		r.Get("/tickets/{ticketId}", h.GetTicket)

		r.Post("/forum/{messageId}/pin", h.TogglePin)
		r.Delete("/forum/{messageId}", h.DeleteMessage)
		r.Post("/forum/{messageId}/react", h.React)
	})

	return r
}
