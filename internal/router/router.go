package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sgc-backend/internal/handlers"
	"sgc-backend/internal/middleware"
	"sgc-backend/internal/websocket"
)

func New(
	sessionTokens *middleware.SessionTokens,
	assistantHandler *handlers.AssistantHandler,
	contactHandler *handlers.ContactHandler,
	mediaHandler *handlers.MediaHandler,
	contentHandler *handlers.ContentHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// ──── Chat widget ────
		r.Route("/assistant", func(r chi.Router) {
			r.Post("/sessions", assistantHandler.CreateSession)

			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Use(sessionTokens.Middleware)
				r.Get("/", assistantHandler.GetSession)
				r.Post("/open", assistantHandler.OpenSession)
				r.Post("/messages", assistantHandler.SendMessage)
			})

			r.Get("/ws", wsHub.HandleWebSocket)
		})

		// ──── Contact form ────
		r.Post("/contact", contactHandler.Submit)

		// ──── Media ────
		r.Route("/media/youtube/{id}", func(r chi.Router) {
			r.Get("/", mediaHandler.GetYouTube)
			r.Get("/captions", mediaHandler.GetYouTubeCaptions)
		})

		// ──── Site copy ────
		r.Get("/content/{lang}", contentHandler.Get)
	})

	return r
}
