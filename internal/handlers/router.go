package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"formdesk-backend/internal/middleware"
	"formdesk-backend/internal/session"
	"formdesk-backend/internal/storage"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Sessions      *session.Store
	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigins   []string

	// Limits session creation per client IP. Zero RPS disables the limiter.
	RateLimit rate.Limit
	Burst     int

	Renderer  Renderer
	Archive   storage.Store // nil: exports are not archived
	ExportDir string        // served under /api/exports/ when Archive is set
}

// NewRouter builds the API router. ctx bounds background work started by
// middleware (the rate limiter's cleanup loop).
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessionHandler := NewSessionHandler(cfg.Sessions, cfg.SessionSecret, cfg.SessionTTL)
	intakeHandler := NewIntakeHandler(cfg.Sessions)
	billingHandler := NewBillingHandler(cfg.Sessions, cfg.Renderer, cfg.Archive)

	// Public routes
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Formdesk API"))
	})
	r.Get("/api/health", sessionHandler.Health)

	r.Group(func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimit, cfg.Burst))
		}
		r.Post("/api/sessions", sessionHandler.Create)
	})

	// Session-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.SessionSecret, cfg.Sessions))

		r.Delete("/api/session", sessionHandler.Delete)

		// Archived invoices carry customer details
		if cfg.Archive != nil {
			exportHandler := NewExportHandler(cfg.Archive, cfg.ExportDir)
			r.Get("/api/exports/*", exportHandler.ServeFile)
		}

		r.Route("/api/intake", func(r chi.Router) {
			r.Get("/", intakeHandler.Get)
			r.Put("/", intakeHandler.Replace)
			r.Put("/fields", intakeHandler.SetField)
			r.Post("/touch", intakeHandler.Touch)
			r.Put("/sections/{section}", intakeHandler.SetSection)
			r.Get("/errors", intakeHandler.HasError)
			r.Post("/submit", intakeHandler.Submit)
		})

		r.Route("/api/billing", func(r chi.Router) {
			r.Get("/", billingHandler.Get)
			r.Put("/customer", billingHandler.SetCustomer)
			r.Post("/items", billingHandler.AddItem)
			r.Delete("/items/{index}", billingHandler.RemoveItem)
			r.Put("/items/{index}", billingHandler.SetItemField)
			r.Post("/submit", billingHandler.Submit)
			r.Get("/document", billingHandler.Document)
			r.Get("/document.pdf", billingHandler.DocumentPDF)
		})
	})

	return r
}
