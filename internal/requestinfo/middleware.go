// internal/requestinfo/middleware.go
//
// Enrich runs on every tenant router, after alias rewriting, so the stored
// URL is the one the components route on.  The root router's chi RealIP
// has usually rewritten RemoteAddr already; the forwarded headers are read
// again for deployments that skip it.
package requestinfo

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Enrich attaches a *RequestInfo to the request context.
func Enrich(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RequestInfo{
			UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
			Geo:       lookupGeo(clientIP(r)),
			URL:       r.URL,
			Timestamp: time.Now().UTC(),
		}
		if ce := zap.L().Check(zap.DebugLevel, "request info"); ce != nil {
			ce.Write(
				zap.Stringer("ip", info.Geo.IP),
				zap.String("country", info.Geo.CountryISO),
				zap.String("device", DeviceClass(info)),
				zap.String("path", r.URL.Path),
			)
		}
		next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
	})
}

// clientIP prefers the first parseable X-Forwarded-For hop, then
// X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, hop := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(hop)); ip != nil {
				return ip
			}
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
