package handler

import (
	"github.com/go-chi/chi/v5"
)

// Routes wires the conversation API route table. Middleware is the caller's
// concern; pair with StripSlashes so the reference backend's trailing-slash
// collection routes resolve too.
func Routes(convs *ConversationHandler, msgs *MessageHandler, health *HealthHandler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", health.Health)

	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", convs.Create)
		r.Get("/", convs.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", convs.Get)
			r.Delete("/", convs.Delete)
			r.Post("/messages", msgs.Append)
		})
	})

	return r
}
