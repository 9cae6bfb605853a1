// internal/requestinfo/requestinfo.go
//
// Per-request visitor metadata: user-agent fingerprint, client IP with an
// optional GeoLite2 city lookup, URL, and arrival time.
//
// Context
// -------
// Enrich (middleware.go) builds one *RequestInfo per request and stores it
// in the request context.  The profile card reads the coarse DeviceClass
// for its view counter; templates reach the rest through the view func
// map (browser, os, country, …).
//
// Notes
// -----
//   - The structs are inert values, safe to log or JSON-encode.
//   - Geolocation is best effort.  Without InitGeo, Geo carries the IP only.
package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/oschwald/geoip2-golang"
)

// UA holds the parsed user-agent properties.
type UA struct {
	Raw         string
	Browser     string // "Chrome", "Firefox", "Safari", …
	Version     string // "124", "17.4"
	OS          string // "macOS", "Windows", "Android", "iOS", …
	OSVersion   string
	Device      string // "Desktop", "Phone", "Tablet", "TV", …
	Platform    string // "Mac", "Windows", "Linux", "iPhone", …
	IsBot       bool
	PrimaryLang string // first Accept-Language tag, lowercased
}

// Geo holds IP-based location hints.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is what Enrich attaches to each request.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	URL       *url.URL
	Timestamp time.Time
}

type ctxKey struct{}

// WithInfo returns ctx carrying info.
func WithInfo(ctx context.Context, info *RequestInfo) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// FromContext returns the value stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// DeviceClass buckets a request for metrics labels: desktop, mobile,
// tablet, bot, or other.  A nil info is "other".
func DeviceClass(info *RequestInfo) string {
	if info == nil {
		return "other"
	}
	if info.UA.IsBot {
		return "bot"
	}
	switch info.UA.Device {
	case "Desktop":
		return "desktop"
	case "Phone":
		return "mobile"
	case "Tablet":
		return "tablet"
	}
	return "other"
}

//
// GeoLite2
//

var (
	geoMu     sync.RWMutex
	geoReader *geoip2.Reader
)

// InitGeo opens the GeoLite2-City database.  An empty path disables
// geolocation.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	geoMu.Lock()
	old := geoReader
	geoReader = r
	geoMu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// CloseGeo releases the reader.
func CloseGeo() {
	geoMu.Lock()
	defer geoMu.Unlock()
	if geoReader != nil {
		_ = geoReader.Close()
		geoReader = nil
	}
}

func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	if ip == nil {
		return g
	}
	geoMu.RLock()
	defer geoMu.RUnlock()
	if geoReader == nil {
		return g
	}
	if rec, err := geoReader.City(ip); err == nil {
		g.CountryISO = rec.Country.IsoCode
		g.City = rec.City.Names["en"]
	}
	return g
}
