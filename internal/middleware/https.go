// internal/middleware/https.go
//
// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/linkcard/internal/tenant"
)

// TenantLookup is satisfied by *tenant.Cache.
type TenantLookup interface {
	Get(host string) (*tenant.Tenant, error)
}

// ForceHTTPS sends plain-HTTP requests for known sites to the same URL over
// HTTPS with a 308.  Dev hosts, TLS requests, and requests a proxy marked
// with X-Forwarded-Proto: https pass through, as do unknown hosts so the
// dispatcher can answer 404.
func ForceHTTPS(sites TenantLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secure(r) || tenant.IsDevHost(r.Host) {
			next.ServeHTTP(w, r)
			return
		}
		host := tenant.NormalizeHost(r.Host)
		if _, err := sites.Get(host); err != nil {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusPermanentRedirect)
	})
}

func secure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
