package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"korx-catalog/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - REST API каталога.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает роутер отдельно от http.Server, чтобы его можно было гонять через httptest.
func NewRouter(
	corsOrigins []string,
	listings *ListingsHandler,
	favorites *FavoritesHandler,
	drafts *DraftsHandler,
	baseLogger port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/listings/{id}", listings.GetListing)
		r.Get("/listings/{id}/children", listings.GetChildren)
		r.Get("/lookups/{kind}", listings.GetLookups)

		r.Get("/favorites", favorites.GetFavorites)
		r.Get("/favorites/stream", favorites.StreamFavorites)
		r.Post("/favorites/{id}/toggle", favorites.ToggleFavorite)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", drafts.StartDraft)
			r.Route("/{draftID}", func(r chi.Router) {
				r.Get("/", drafts.GetDraft)
				r.Delete("/", drafts.DiscardDraft)
				r.Put("/record", drafts.UpdateRecord)
				r.Post("/next", drafts.NextStep)
				r.Post("/back", drafts.PreviousStep)
				r.Post("/jump/{step}", drafts.JumpToStep)
				r.Post("/media", drafts.AttachMedia)
				r.Post("/submit", drafts.SubmitDraft)
			})
		})
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(
	listenPort string,
	corsOrigins []string,
	listings *ListingsHandler,
	favorites *FavoritesHandler,
	drafts *DraftsHandler,
	baseLogger port.LoggerPort,
) *Server {
	srv := &http.Server{
		Addr:              ":" + listenPort,
		Handler:           NewRouter(corsOrigins, listings, favorites, drafts, baseLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

// Start запускает HTTP-сервер. Блокируется до Stop.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
