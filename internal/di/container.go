// Package di provides dependency injection configuration for the MusicGraph server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/musicgraph/musicgraph-server/internal/auth"
	"github.com/musicgraph/musicgraph-server/internal/config"
	"github.com/musicgraph/musicgraph-server/internal/di/providers"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Persistence
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideBandService)
	do.Provide(injector, providers.ProvideGraphService)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideSeedService)

	// First start
	do.Provide(injector, providers.ProvideFirstRun)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.BandService](injector)
	_ = do.MustInvoke[*service.GraphService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Admin account and default taxonomy must exist before the server accepts requests.
	if _, err := do.Invoke[*providers.FirstRun](injector); err != nil {
		return err
	}

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
