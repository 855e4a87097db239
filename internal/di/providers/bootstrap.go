package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/musicgraph/musicgraph-server/internal/config"
	"github.com/musicgraph/musicgraph-server/internal/genre"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

// FirstRun records what startup created on an empty database.
type FirstRun struct {
	AdminCreated bool
	Seed         *service.SeedReport
}

// ProvideFirstRun creates the configured admin when no users exist and
// seeds the default taxonomy when no genres exist.
func ProvideFirstRun(i do.Injector) (*FirstRun, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	adminService := do.MustInvoke[*service.AdminService](i)
	seedService := do.MustInvoke[*service.SeedService](i)

	ctx := context.Background()
	result := &FirstRun{}

	if cfg.Bootstrap.HasAdmin() {
		created, err := adminService.BootstrapAdmin(ctx, service.CreateUserRequest{
			Username: cfg.Bootstrap.AdminUsername,
			Email:    cfg.Bootstrap.AdminEmail,
			Password: cfg.Bootstrap.AdminPassword,
		})
		if err != nil {
			return nil, err
		}
		result.AdminCreated = created
		if created {
			log.Info("Bootstrap admin created", "username", cfg.Bootstrap.AdminUsername)
		}
	} else if n, err := storeHandle.CountUsers(ctx); err == nil && n == 0 {
		log.Warn("No users exist and no bootstrap admin is configured; create one with musicgraph-admin create-user --admin")
	}

	if !cfg.Bootstrap.SeedDefaults {
		return result, nil
	}

	count, err := storeHandle.CountGenres(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return result, nil
	}

	report, err := seedService.SeedTaxonomy(ctx, genre.DefaultTaxonomy)
	if err != nil {
		return nil, err
	}
	result.Seed = report
	log.Info("Default taxonomy seeded",
		"genres", report.GenresCreated,
		"bands", report.BandsCreated,
	)

	return result, nil
}
