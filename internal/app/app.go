// Package app assembles the service from its configured parts.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/its-pratyushpandey/Intellia/internal/api"
	"github.com/its-pratyushpandey/Intellia/internal/classifier"
	"github.com/its-pratyushpandey/Intellia/internal/config"
	"github.com/its-pratyushpandey/Intellia/internal/events"
	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/observability"
	"github.com/its-pratyushpandey/Intellia/internal/observability/logging"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration

	Store      identity.Store
	Classifier *classifier.Client
	Publisher  *events.Publisher

	api *api.Server
	obs *observability.Server
}

// New constructs the application from the provided configuration. The
// identity store fails closed: a store that cannot open is a startup error,
// not a degraded mode.
func New(cfg *config.Configuration) (*Application, error) {
	logging.Init(logging.Config{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
	})

	a := &Application{
		Cfg:    cfg,
		Logger: log.With().Str("component", "application").Logger(),
	}

	store, err := identity.NewSQLite(cfg.Store.DBPath)
	if err != nil {
		return nil, err
	}
	a.Store = store

	a.Classifier = classifier.New(cfg.Classifier.APIURL, cfg.Classifier.Timeout)
	a.Publisher = events.New(&events.Config{
		Enabled:         cfg.Kafka.Enabled,
		Brokers:         cfg.Kafka.Brokers,
		TopicAccepted:   cfg.Kafka.TopicAccepted,
		TopicDispatched: cfg.Kafka.TopicDispatched,
		Principal:       cfg.Kafka.Principal,
	})

	a.api = api.NewServer(cfg, a.Store, a.Classifier, a.Publisher)
	a.obs = observability.NewServer(":" + cfg.Observability.MetricsPort)

	a.Logger.Info().Msg("Application created")
	return a, nil
}

// Run serves traffic until ctx is cancelled, then shuts everything down.
func (a *Application) Run(ctx context.Context) error {
	a.StartupTime = time.Now().UTC()
	a.Logger.Info().Time("startupTime", a.StartupTime).Msg("Service starting")

	a.obs.Start()

	err := a.api.Serve(ctx)

	a.shutdown()
	return err
}

func (a *Application) shutdown() {
	a.Logger.Info().Msg("Service shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.obs.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn().Err(err).Msg("Observability server shutdown failed")
	}
	if err := a.Publisher.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Publisher close failed")
	}
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Store close failed")
	}
}
