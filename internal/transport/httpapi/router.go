package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/solsplit/internal/transport/httpapi/handler"
	"github.com/kislikjeka/solsplit/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger              *logger.Logger
	AllowedOrigins      []string
	AuthHandler         *handler.AuthHandler
	BillHandler         *handler.BillHandler
	ProgressHandler     *handler.ProgressHandler
	NotificationHandler *handler.NotificationHandler
	HealthHandler       *handler.HealthHandler
	JWTMiddleware       func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Wallet connect (public)
		if cfg.AuthHandler != nil {
			r.Post("/auth/connect", cfg.AuthHandler.Connect)
		}

		// Protected routes (require a wallet session token)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.BillHandler != nil {
					r.Get("/bills", cfg.BillHandler.GetBills)
					r.Post("/bills", cfg.BillHandler.CreateBill)
					r.Post("/bills/pay", cfg.BillHandler.PayBill)
					r.Delete("/bills/pending", cfg.BillHandler.DiscardBill)
				}

				if cfg.ProgressHandler != nil {
					r.Get("/progress", cfg.ProgressHandler.GetProgress)
				}

				if cfg.NotificationHandler != nil {
					r.Get("/notifications", cfg.NotificationHandler.GetNotifications)
				}
			})
		}
	})

	return r
}
