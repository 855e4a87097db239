package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	principalKey ctxKey = "principal"
	clientKey    ctxKey = "client"
)

// PrincipalFrom returns the authenticated caller, or nil for an anonymous
// request. Handlers pass it to services unchanged; the services decide what
// an anonymous caller may do.
func PrincipalFrom(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey).(*domain.Principal)
	return p
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// clientFrom returns the client info recorded by authMiddleware.
func clientFrom(ctx context.Context) service.ClientInfo {
	c, _ := ctx.Value(clientKey).(service.ClientInfo)
	return c
}

// authMiddleware records client info and, when a valid Bearer token is
// present, the caller's principal. Missing or invalid tokens leave the
// request anonymous.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientKey, service.ClientInfo{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			})

			if token, ok := bearerToken(r.Header.Get("Authorization")); ok && auth != nil {
				if p, err := auth.VerifyAccessToken(ctx, token); err == nil {
					ctx = WithPrincipal(ctx, p)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// clientIP returns the request's remote host. middleware.RealIP has
// already applied X-Forwarded-For and X-Real-IP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
