package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// sessionCleanupInterval is how often expired sessions are purged.
	sessionCleanupInterval = time.Hour
)

// Version is reported in the OpenAPI document. Set with -ldflags.
var Version = "dev"
