package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/musicgraph/musicgraph-server/internal/config"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/search"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.SearchIndexPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "path", cfg.SearchIndexPath(), "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index in the background
// when the store holds genres. Call it after first-run seeding.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	empty, err := searchService.IsEmpty()
	if err != nil || !empty {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountGenres(ctx)
	if err != nil || count == 0 {
		return
	}

	log.Info("Search index is empty but genres exist, triggering initial reindex", "genre_count", count)

	go func() {
		if err := searchService.Reindex(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		docs, _ := searchService.DocumentCount()
		log.Info("Initial search reindex completed", "documents", docs)
	}()
}
