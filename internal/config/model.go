// internal/config/model.go
//
// Typed configuration model for the link-card host.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         : dotenv values,
//   • `conf/global.yaml`                      : primary static file,
//   • `ADEPT_`-prefixed environment overrides : highest precedence.
//
// Any secret field whose value begins with `vault:` is resolved through
// the Vault client by ResolveSecrets (secrets.go) right after Load, so the
// rest of the app only ever sees plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`; Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yanizio/linkcard/internal/media"
	"github.com/yanizio/linkcard/internal/profile"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Log section
//

// Log configures the zap file sink and the optional console tee.
type Log struct {
	Dir     string `koanf:"dir"`
	Level   string `koanf:"level"   validate:"omitempty,oneof=debug info warn error"`
	Console bool   `koanf:"console"`
	MaxSize int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxAge  int    `koanf:"max_age_days" validate:"gte=0"`
}

//
// Database section
//

// Database holds DSN templates and secrets.
//
// The *template* (`GlobalDSN`) is kept in YAML so operators can tweak
// host, port, or flags without touching Vault.  A single `%s` verb marks
// where the *secret* (`GlobalPassword`) goes; the password normally lives
// in Vault and is injected at runtime.
type Database struct {
	GlobalDSN      string `koanf:"global_dsn"      validate:"required,mysqldsn"`
	GlobalPassword string `koanf:"global_password" validate:"required"`
	LocalhostAlias string `koanf:"localhost_alias"`
	TenantMaxOpen  int    `koanf:"tenant_max_open" validate:"gte=0"`
	TenantMaxIdle  int    `koanf:"tenant_max_idle" validate:"gte=0"`
}

// DSN fills the password into GlobalDSN.
func (d Database) DSN() string {
	if strings.Contains(d.GlobalDSN, "%s") {
		return fmt.Sprintf(d.GlobalDSN, d.GlobalPassword)
	}
	return d.GlobalDSN
}

//
// Tenant cache section
//

// Tenant tunes the lazy tenant cache.  Zero values pick the package
// defaults in internal/tenant.
type Tenant struct {
	IdleTTL       time.Duration `koanf:"idle_ttl"`
	MaxEntries    int           `koanf:"max_entries"    validate:"gte=0"`
	EvictInterval time.Duration `koanf:"evict_interval"`
	AliasTTL      time.Duration `koanf:"alias_ttl"`
	ThemesDir     string        `koanf:"themes_dir"`
	VaultPath     string        `koanf:"vault_path"` // KV path prefix for per-tenant DB passwords
}

//
// Session section
//

// Session configures the signed user cookie.  HashKey must be 32 or 64
// bytes; BlockKey 16, 24, or 32 bytes, or empty for sign-only cookies.
type Session struct {
	CookieName string        `koanf:"cookie_name"`
	HashKey    string        `koanf:"hash_key"  validate:"required,hashkey"`
	BlockKey   string        `koanf:"block_key" validate:"blockkey"`
	MaxAge     time.Duration `koanf:"max_age"`
}

//
// Media section
//

// Media configures uploads.
type Media struct {
	Dir      string `koanf:"dir"`
	MaxBytes int64  `koanf:"max_bytes" validate:"gte=0"`
}

// MaxBytesOrDefault returns MaxBytes or the library default.
func (m Media) MaxBytesOrDefault() int64 {
	if m.MaxBytes > 0 {
		return m.MaxBytes
	}
	return media.DefaultMaxBytes
}

//
// Profile section
//

// Profile carries per-deployment profile defaults.
type Profile struct {
	FooterText        string   `koanf:"footer_text"`
	PageColor         string   `koanf:"page_color"          validate:"omitempty,hexcolor"`
	CardColor         string   `koanf:"card_color"          validate:"omitempty,hexcolor"`
	GradientAngle     int      `koanf:"gradient_angle"      validate:"gte=0,lte=360"`
	AdminSlug         string   `koanf:"admin_slug"`
	ReservedSlugs     []string `koanf:"reserved_slugs"`
	SlugRoles         []string `koanf:"slug_roles"`
	MaxGradientColors int      `koanf:"max_gradient_colors" validate:"gte=0,lte=3"`
}

// Options converts the section into profile.Options.
func (p Profile) Options() profile.Options {
	return profile.Options{
		FooterText:     p.FooterText,
		PageColor:      p.PageColor,
		CardColor:      p.CardColor,
		GradientAngle:  p.GradientAngle,
		AdminSlug:      p.AdminSlug,
		ReservedSlugs:  p.ReservedSlugs,
		MaxGradientLen: p.MaxGradientColors,
	}
}

//
// Geo section
//

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Vault section
//

// Vault toggles secret resolution.  Address and token come from the usual
// VAULT_ADDR and VAULT_TOKEN environment variables.
type Vault struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime; never set in YAML or env.  The loader
// discovers `Root` (repo root or ADEPT_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Log      Log      `koanf:"log"`
	Database Database `koanf:"database"`
	Tenant   Tenant   `koanf:"tenant"`
	Session  Session  `koanf:"session"`
	Media    Media    `koanf:"media"`
	Profile  Profile  `koanf:"profile"`
	Geo      Geo      `koanf:"geo"`
	Vault    Vault    `koanf:"vault"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
