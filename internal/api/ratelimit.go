package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// loginRateLimit is a huma operation middleware that limits attempts per
// client IP. It returns 429 RATE_LIMITED when the bucket is empty.
func (s *Server) loginRateLimit(ctx huma.Context, next func(huma.Context)) {
	key := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(key); err == nil {
		key = host
	}

	if !s.loginLimiter.Allow(key) {
		s.logger.Warn("rate limit exceeded", "ip", key, "path", ctx.URL().Path)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		return
	}
	next(ctx)
}
