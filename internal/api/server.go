// Package api exposes the profile REST endpoints and the WebSocket session
// transport.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/its-pratyushpandey/Intellia/internal/capture"
	"github.com/its-pratyushpandey/Intellia/internal/capture/google"
	"github.com/its-pratyushpandey/Intellia/internal/config"
	"github.com/its-pratyushpandey/Intellia/internal/events"
	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/observability/logging"
	"github.com/its-pratyushpandey/Intellia/internal/session"
)

// Server carries the shared dependencies for all HTTP handlers.
type Server struct {
	cfg        *config.Configuration
	store      identity.Store
	classifier session.Classifier
	publisher  *events.Publisher
	logger     zerolog.Logger

	// newAudioRecognizer builds the server-side recognizer for sessions that
	// upload raw audio. Invoked only when capture.GoogleEnabled is set.
	newAudioRecognizer func(ctx context.Context, language string) (capture.Recognizer, error)
}

// NewServer constructs the HTTP surface over the given dependencies.
func NewServer(cfg *config.Configuration, store identity.Store, cls session.Classifier, publisher *events.Publisher) *Server {
	return &Server{
		cfg:        cfg,
		store:      store,
		classifier: cls,
		publisher:  publisher,
		logger:     logging.WithComponent("api"),
		newAudioRecognizer: func(ctx context.Context, language string) (capture.Recognizer, error) {
			return google.New(ctx, google.Config{
				LanguageCode: language,
				SampleRateHz: cfg.Capture.SampleRateHz,
			})
		},
	}
}

// Router constructs the HTTP router for the service.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := s.store.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("store unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/user/current", s.handleCurrentUser)
		r.Post("/user/update", s.handleUpdateAssistant)
		r.Post("/user/update-settings", s.handleUpdateSettings)
		r.Get("/user/history", s.handleHistory)
		r.Post("/assistant/ask", s.handleAsk)
		r.Get("/session/ws", s.handleSession)
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Service.HTTPPort,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("port", s.cfg.Service.HTTPPort).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
