// internal/routing/middleware.go
//
// Alias rewriting for the tenant router.  AliasTenant is the slice of
// *tenant.Tenant this package needs; keeping it here avoids an import
// cycle.
package routing

import (
	"net/http"

	"go.uber.org/zap"
)

// AliasTenant is satisfied by *tenant.Tenant.
type AliasTenant interface {
	RoutingMode() string
	RouteVersion() int
	AliasCache() *AliasCache
}

// Routing modes stored in site.routing_mode.
const (
	RouteModeAbsolute  = "absolute" // component paths only
	RouteModeAliasOnly = "alias"    // aliases only; anything else 404s
	RouteModeBoth      = "both"
)

// NormalizeMode maps empty and unknown values to RouteModeBoth.
func NormalizeMode(m string) string {
	switch m {
	case RouteModeAbsolute, RouteModeAliasOnly:
		return m
	}
	return RouteModeBoth
}

// Middleware rewrites alias paths to their targets before routing.
func Middleware(t AliasTenant) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mode := t.RoutingMode()
			if mode == RouteModeAbsolute {
				next.ServeHTTP(w, r)
				return
			}

			aliases := t.AliasCache()
			if err := aliases.Refresh(r.Context(), t.RouteVersion()); err != nil {
				// Serve from the previous mirror.
				zap.L().Warn("alias refresh", zap.Error(err))
			}

			target, ok := aliases.Resolve(r.URL.Path)
			switch {
			case ok:
				zap.L().Debug("alias rewrite", zap.String("from", r.URL.Path), zap.String("to", target))
				r.URL.Path = target
				r.URL.RawPath = ""
				r.RequestURI = target
			case mode == RouteModeAliasOnly:
				http.NotFound(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
