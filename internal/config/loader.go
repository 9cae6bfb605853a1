// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
Load builds one immutable Config from four layers, lowest precedence
first:

  1. Built-in defaults (defaults below).
  2. Optional `<root>/conf/.env`, exported into the process environment.
  3. `<root>/conf/global.yaml`.
  4. Environment variables prefixed `ADEPT_`, where `__` separates levels
     (`ADEPT_TENANT__IDLE_TTL → tenant.idle_ttl`).

The merged tree is unmarshalled, stamped with the runtime root, validated,
and published through an atomic.Pointer for lock-free reads (Get).

Notes
-----
  • Boot logging goes through zap.S(), which cmd/web points at a console
    logger until the file logger exists.
  • `vault:` references pass validation untouched; see ResolveSecrets.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "ADEPT_"

var current atomic.Pointer[Config]

var defaults = map[string]any{
	"http.listen_addr":    ":8080",
	"log.dir":             "logs",
	"log.level":           "info",
	"tenant.themes_dir":   "themes",
	"tenant.vault_path":   "secret/linkcard/tenants",
	"session.cookie_name": "adept_session",
	"media.dir":           "uploads",
}

// Load discovers the root directory and calls LoadFrom.
func Load() (*Config, error) {
	return LoadFrom(rootDir())
}

// LoadFrom loads <root>/conf/global.yaml with defaults and env overrides.
func LoadFrom(root string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("config default %s: %w", key, err)
		}
	}

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config %s: %w", yamlPath, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("config invalid: %w", err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"root", root,
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"vault", cfg.Vault.Enabled,
	)
	return &cfg, nil
}

// Get returns the last published Config, or nil before the first Load.
func Get() *Config { return current.Load() }

// envKey maps ADEPT_TENANT__IDLE_TTL to tenant.idle_ttl.
func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
}

// rootDir resolves ADEPT_ROOT, else the nearest ancestor of the working
// directory holding conf/global.yaml, else the parent of a bin/ holding
// the executable, else the working directory.
func rootDir() string {
	if r := os.Getenv("ADEPT_ROOT"); r != "" {
		return r
	}
	wd, _ := os.Getwd()
	for dir := wd; ; {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if exe, err := os.Executable(); err == nil && filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}
