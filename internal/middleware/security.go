// internal/middleware/security.go
//
// Baseline response headers.  Defaults are written before the handler
// runs, so a handler that needs a different policy (the public card page
// and its CSP) simply overwrites with Header().Set.
package middleware

import "net/http"

// DefaultCSP is the policy applied when a handler sets none.
const DefaultCSP = "default-src 'self'; img-src 'self' data:; object-src 'none'; " +
	"base-uri 'self'; frame-ancestors 'none'"

const hsts = "max-age=63072000; includeSubDomains"

var baseline = [][2]string{
	{"Content-Security-Policy", DefaultCSP},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
}

// Security sets the baseline headers, plus Strict-Transport-Security on
// requests that arrived over HTTPS.
func Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range baseline {
			h.Set(kv[0], kv[1])
		}
		if secure(r) {
			h.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}
