package providers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/musicgraph/musicgraph-server/internal/api"
	"github.com/musicgraph/musicgraph-server/internal/config"
	"github.com/musicgraph/musicgraph-server/internal/logger"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:   do.MustInvoke[*service.AuthService](i),
		Admin:  do.MustInvoke[*service.AdminService](i),
		Genre:  do.MustInvoke[*service.GenreService](i),
		Band:   do.MustInvoke[*service.BandService](i),
		Graph:  do.MustInvoke[*service.GraphService](i),
		Search: do.MustInvoke[*service.SearchService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		Version:        Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MetricsEnabled: cfg.Server.MetricsEnabled,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
		LoginRateBurst: cfg.Auth.LoginRateBurst,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Bind before returning so a busy port fails startup.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		handler.Close()
		return nil, err
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
