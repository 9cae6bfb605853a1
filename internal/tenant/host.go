// internal/tenant/host.go
//
// Host normalisation and the tenant DB naming rules.
//
// Context
// -------
// Every entry point (root dispatch, ForceHTTPS, the loader) keys tenants by
// the same canonical host, so the rules live here once:
//
//   - NormalizeHost lowercases the Host header and drops the port.
//   - Dev hosts (localhost, 127.0.0.1) map to a configured alias so a
//     workstation can serve a real site row.
//   - The DB key strips dots and dashes ("my-card.site" → "mycardsite")
//     and doubles as the MySQL user and schema name.
package tenant

import (
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NormalizeHost returns h lowercased and without a :port suffix.
func NormalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return strings.TrimSuffix(h, ":")
}

// IsDevHost reports whether h names the local machine.
func IsDevHost(h string) bool {
	switch NormalizeHost(h) {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

const defaultDevAlias = "devlocal"

// lookupHost is the `site.host` value a request host resolves to.
func lookupHost(h, devAlias string) string {
	if !IsDevHost(h) {
		return NormalizeHost(h)
	}
	if devAlias == "" {
		return defaultDevAlias
	}
	return NormalizeHost(devAlias)
}

var keyStrip = strings.NewReplacer(".", "", "-", "")

// dbKey derives the tenant DB user and schema name.
func dbKey(lookup string) string { return keyStrip.Replace(lookup) }

// tenantDSN builds the DSN for a tenant without its own row DSN.  addr is
// the MySQL host:port shared with the control-plane DB.
func tenantDSN(addr, key, pw string) string {
	if addr == "" {
		addr = "127.0.0.1:3306"
	}
	c := mysql.NewConfig()
	c.User = key
	c.Passwd = pw
	c.Net = "tcp"
	c.Addr = addr
	c.DBName = key
	c.ParseTime = true
	c.Loc = time.Local
	return c.FormatDSN()
}

// DBAddr extracts host:port from a control-plane DSN.  It returns "" when
// the DSN does not parse.
func DBAddr(dsn string) string {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return ""
	}
	return c.Addr
}
