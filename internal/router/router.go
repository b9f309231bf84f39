package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"coinchat-backend/internal/handlers"
	"coinchat-backend/internal/middleware"
)

type Handlers struct {
	Chat      *handlers.ChatHandler
	MoodBot   *handlers.ChatHandler
	Analytics *handlers.AnalyticsHandler
	Health    *handlers.HealthHandler
}

func New(h Handlers, chatLimiter middleware.Limiter, frontendURL string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(frontendURL))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/info", h.Health.Info)

		// ──── Chat Routes (rate limited per IP) ────
		r.Group(func(r chi.Router) {
			if chatLimiter != nil {
				r.Use(middleware.RateLimit(chatLimiter, logger))
			}
			r.Post("/chat", h.Chat.Chat)
			if h.MoodBot != nil {
				r.Post("/moodbot", h.MoodBot.Chat)
			}
		})

		// ──── Analytics Routes ────
		if h.Analytics != nil {
			r.Post("/youtube/analytics", h.Analytics.YouTube)
		}
	})

	return r
}
