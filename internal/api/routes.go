package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile/basic", s.handleSubmitBasic)
		r.Put("/profile/youth", s.handleSubmitYouth)
		r.Put("/profile/expert", s.handleSubmitExpert)

		r.Get("/notifications", s.handleNotifications)
		r.Get("/evaluations", s.handleEvaluations)
		r.Get("/evaluations/summary", s.handleEvaluationSummary)
		r.Get("/experts", s.handleExperts)

		r.Get("/session", s.handleSession)
		r.Post("/session/logout", s.handleLogout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errMethodNotAllowed(r))
	})
	return r
}
