// internal/metrics/middleware.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Instrument counts requests by status class ("2xx", "4xx", ...) and
// records their latency.  Paths are not used as labels; tenants own
// arbitrary alias paths.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		HTTPSeconds.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(r.Method, statusClass(ww.Status())).Inc()
	})
}

func statusClass(code int) string {
	if code == 0 {
		code = http.StatusOK
	}
	return strconv.Itoa(code/100) + "xx"
}
