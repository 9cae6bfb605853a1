// internal/config/secrets.go
//
// `vault:` reference resolution.
//
// Context
// -------
// Secret fields may hold a reference instead of a value:
//
//	database.global_password: "vault:secret/linkcard/db#password"
//	session.hash_key:         "vault:secret/linkcard/session#hash_key"
//
// ResolveSecrets replaces each reference with the KV-v2 value fetched
// through a SecretGetter (the internal/vault client in production), then
// re-validates and re-publishes the Config.
//
// Notes
// -----
//   • Only the fields listed in secretFields are resolved.
//   • A reference without "#key" is an error.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const vaultPrefix = "vault:"

// SecretGetter reads one key of a KV-v2 secret.
type SecretGetter interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

// secretFields lists every field that may carry a vault: reference.
func secretFields(c *Config) map[string]*string {
	return map[string]*string{
		"database.global_password": &c.Database.GlobalPassword,
		"session.hash_key":         &c.Session.HashKey,
		"session.block_key":        &c.Session.BlockKey,
	}
}

// HasSecretRefs reports whether any secret field still holds a reference.
func HasSecretRefs(c *Config) bool {
	for _, p := range secretFields(c) {
		if strings.HasPrefix(*p, vaultPrefix) {
			return true
		}
	}
	return false
}

// ResolveSecrets fetches every vault: reference in c.  c is modified in
// place, validated, and stored as the current Config.
func ResolveSecrets(ctx context.Context, c *Config, g SecretGetter) error {
	for name, p := range secretFields(c) {
		if !strings.HasPrefix(*p, vaultPrefix) {
			continue
		}
		path, key, ok := strings.Cut(strings.TrimPrefix(*p, vaultPrefix), "#")
		if !ok || path == "" || key == "" {
			return fmt.Errorf("config %s: malformed vault reference", name)
		}
		val, err := g.GetKV(ctx, path, key, c.Vault.TTL)
		if err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
		*p = val
		zap.S().Debugw("config secret resolved", "field", name, "path", path)
	}

	if err := validateStruct(c); err != nil {
		return fmt.Errorf("config validation after secrets: %w", err)
	}
	current.Store(c)
	return nil
}
