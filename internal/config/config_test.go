package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testYAML = `
http:
  listen_addr: "127.0.0.1:8080"
database:
  global_dsn: "adept:%s@tcp(127.0.0.1:3306)/adept?parseTime=true"
  global_password: "vault:secret/linkcard/db#password"
session:
  hash_key: "0123456789abcdef0123456789abcdef"
media:
  dir: "uploads"
profile:
  admin_slug: "me"
  gradient_angle: 90
tenant:
  idle_ttl: 10m
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

func TestLoadFromYAMLAndEnv(t *testing.T) {
	root := writeRoot(t, testYAML)
	t.Setenv("ADEPT_HTTP__FORCE_HTTPS", "true")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	require.Equal(t, root, cfg.Paths.Root)
	require.True(t, cfg.HTTP.ForceHTTPS)
	require.Equal(t, 10*time.Minute, cfg.Tenant.IdleTTL)
	require.Equal(t, "me", cfg.Profile.Options().AdminSlug)
	require.Equal(t, 90, cfg.Profile.Options().GradientAngle)
	require.True(t, HasSecretRefs(cfg))
	require.Same(t, cfg, Get())
}

func TestLoadRejectsShortHashKey(t *testing.T) {
	root := writeRoot(t, strings.Replace(testYAML,
		"0123456789abcdef0123456789abcdef", "short", 1))
	_, err := LoadFrom(root)
	require.ErrorContains(t, err, "session.hash_key: must be 32 or 64 bytes")
}

func TestLoadReportsEveryBadField(t *testing.T) {
	yaml := strings.Replace(testYAML, "adept:%s@tcp(127.0.0.1:3306)/adept?parseTime=true", "nonsense", 1)
	yaml = strings.Replace(yaml, "gradient_angle: 90", "gradient_angle: 400", 1)
	_, err := LoadFrom(writeRoot(t, yaml))
	require.ErrorContains(t, err, "database.global_dsn: not a MySQL DSN")
	require.ErrorContains(t, err, "profile.gradient_angle: failed lte=360")
}

// stubVault serves fixed secrets.
type stubVault map[string]string

func (s stubVault) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := s[path+"#"+key]
	if !ok {
		return "", errors.New("missing")
	}
	return v, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg, err := LoadFrom(writeRoot(t, testYAML))
	require.NoError(t, err)

	err = ResolveSecrets(context.Background(), cfg, stubVault{"secret/linkcard/db#password": "pw"})
	require.NoError(t, err)
	require.Equal(t, "pw", cfg.Database.GlobalPassword)
	require.Equal(t, "adept:pw@tcp(127.0.0.1:3306)/adept?parseTime=true", cfg.Database.DSN())
	require.False(t, HasSecretRefs(cfg))

	cfg.Session.BlockKey = "vault:nokey"
	require.Error(t, ResolveSecrets(context.Background(), cfg, stubVault{}))
}

func TestDefaultsFillGaps(t *testing.T) {
	cfg, err := LoadFrom(writeRoot(t, testYAML))
	require.NoError(t, err)
	require.Equal(t, "adept_session", cfg.Session.CookieName)
	require.Equal(t, "themes", cfg.Tenant.ThemesDir)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestEnvKey(t *testing.T) {
	require.Equal(t, "tenant.idle_ttl", envKey("ADEPT_TENANT__IDLE_TTL"))
	require.Equal(t, "http.listen_addr", envKey("ADEPT_HTTP__LISTEN_ADDR"))
}

func TestRootDirFromEnv(t *testing.T) {
	t.Setenv("ADEPT_ROOT", "/srv/linkcard")
	require.Equal(t, "/srv/linkcard", rootDir())
}
