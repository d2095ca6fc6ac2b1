// Package server assembles the HTTP routes.
package server

import (
	"net/http"

	"advisormetric/internal/handlers"
	customMiddleware "advisormetric/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options carries everything the router needs.
type Options struct {
	Feedback       *handlers.FeedbackHandler
	StorageName    string
	AdminJWTSecret string
	CORSOrigins    []string
	Logger         *zap.Logger
}

// NewRouter builds the chi router with global middleware and API routes.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health(opts.StorageName))

	r.Route("/api/feedback", func(r chi.Router) {
		// Submitting is always public.
		r.Post("/", opts.Feedback.SubmitFeedback)

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.AdminAuth(opts.AdminJWTSecret))

			r.Get("/", opts.Feedback.ListFeedback)
			r.Get("/export", opts.Feedback.ExportCSV)
			r.Get("/stats", opts.Feedback.Stats)
		})
	})

	return r
}
