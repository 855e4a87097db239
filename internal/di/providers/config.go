// Package providers contains dependency injection providers for the MusicGraph server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/musicgraph/musicgraph-server/internal/config"
	"github.com/musicgraph/musicgraph-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting MusicGraph server",
		"version", Version,
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"metadata_path", cfg.Metadata.BasePath,
		"reject_cycles", cfg.Graph.RejectCycles,
	)

	return log, nil
}
