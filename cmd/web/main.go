// cmd/web/main.go
//
// link-card host: HTTP entry point.
//
// Start-up
// --------
//
//  1. Load env vars (jail-wide file, then .env fallback) and the typed
//     config tree.
//
//  2. Start the rotating file logger (tees to console when running in a
//     TTY) and install it globally.
//
//  3. Resolve `vault:` secrets when Vault is enabled.
//
//  4. Open the control-plane DB and log the active-site count.
//
//  5. Register components and build the tenant cache (lazy-loads each
//     site on first hit, running component migrations).
//
//  6. Build the root router:
//
//     • chi RequestID, RealIP, Recoverer, and request metrics
//     • security headers and the session user
//     • /metrics for Prometheus
//     • everything else → the tenant's own router
//
//  7. Wrap with ForceHTTPS when configured and serve until SIGINT or
//     SIGTERM, then drain.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	profilecomp "github.com/yanizio/linkcard/components/profile"
	"github.com/yanizio/linkcard/internal/auth"
	"github.com/yanizio/linkcard/internal/component"
	"github.com/yanizio/linkcard/internal/config"
	"github.com/yanizio/linkcard/internal/database"
	"github.com/yanizio/linkcard/internal/logger"
	"github.com/yanizio/linkcard/internal/media"
	"github.com/yanizio/linkcard/internal/metrics"
	"github.com/yanizio/linkcard/internal/middleware"
	"github.com/yanizio/linkcard/internal/requestinfo"
	"github.com/yanizio/linkcard/internal/server"
	"github.com/yanizio/linkcard/internal/session"
	"github.com/yanizio/linkcard/internal/site"
	"github.com/yanizio/linkcard/internal/tenant"
	"github.com/yanizio/linkcard/internal/vault"
	"github.com/yanizio/linkcard/internal/view"
)

const serverEnvPath = "/usr/local/etc/linkcard/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

func main() {
	loadEnv()

	// Console logger until the config says where the file sink lives.
	if boot, err := zap.NewDevelopment(); err == nil {
		zap.ReplaceGlobals(boot)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.L().Error("link-card stopped", zap.Error(err))
		_ = zap.L().Sync()
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Config and logger ───────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := logger.New(logger.FromConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	//
	// ── 2.  Secrets ─────────────────────────────────────────────────────
	//
	var secrets *vault.Client
	if cfg.Vault.Enabled {
		if secrets, err = vault.New(ctx); err != nil {
			return err
		}
		if err := config.ResolveSecrets(ctx, cfg, secrets); err != nil {
			return err
		}
	} else if config.HasSecretRefs(cfg) {
		return errors.New("config holds vault: references but vault.enabled is false")
	}

	if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
		zap.L().Warn("geo lookup disabled", zap.Error(err))
	}
	defer requestinfo.CloseGeo()

	//
	// ── 3.  Global DB connect ───────────────────────────────────────────
	//
	zap.L().Info("connecting to global DB")
	globalDB, err := database.OpenWithOptions(ctx, cfg.Database.DSN(), database.DefaultOptions())
	if err != nil {
		return err
	}
	defer globalDB.Close()

	// Active-site count as an early sanity check.
	if n, err := site.CountActive(ctx, globalDB); err == nil {
		zap.L().Info("global DB online", zap.Int("active_sites", n))
	} else {
		zap.L().Warn("count active sites", zap.Error(err))
	}

	//
	// ── 4.  Components and tenant cache ─────────────────────────────────
	//
	codec, err := session.New(session.Options{
		CookieName: cfg.Session.CookieName,
		HashKey:    []byte(cfg.Session.HashKey),
		BlockKey:   []byte(cfg.Session.BlockKey),
		MaxAge:     cfg.Session.MaxAge,
	})
	if err != nil {
		return err
	}

	root := cfg.Paths.Root
	component.Register(profilecomp.New(profilecomp.Options{
		Profile:   cfg.Profile.Options(),
		SlugRoles: cfg.Profile.SlugRoles,
		Disk:      media.NewDisk(underRoot(root, cfg.Media.Dir, "uploads")),
		MaxUpload: cfg.Media.MaxBytesOrDefault(),
		Views:     view.New(root, 512),
	}))

	pool := database.TenantOptions()
	if cfg.Database.TenantMaxOpen > 0 {
		pool.MaxOpenConns = cfg.Database.TenantMaxOpen
	}
	if cfg.Database.TenantMaxIdle > 0 {
		pool.MaxIdleConns = cfg.Database.TenantMaxIdle
	}

	cache := tenant.New(
		tenant.NewLoader(globalDB, tenant.LoaderOptions{
			ThemesDir: underRoot(root, cfg.Tenant.ThemesDir, "themes"),
			AliasTTL:  cfg.Tenant.AliasTTL,
			Pool:      pool,
			Password:  tenantPassword(cfg, secrets),
			DBAddr:    tenant.DBAddr(cfg.Database.GlobalDSN),
			DevAlias:  cfg.Database.LocalhostAlias,
		}),
		tenant.Options{
			IdleTTL:       cfg.Tenant.IdleTTL,
			MaxEntries:    cfg.Tenant.MaxEntries,
			EvictInterval: cfg.Tenant.EvictInterval,
		},
	)
	defer cache.Close()

	//
	// ── 5.  Root router ─────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer, metrics.Instrument)
	r.Use(middleware.Security)
	r.Use(auth.Middleware(codec))

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", dispatch(cache))

	var h http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		h = middleware.ForceHTTPS(cache, h)
	}

	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, h), server.DefaultGrace)
}

// dispatch hands the request to the tenant's router.  The tenant router is
// a separate chi tree, so it gets a fresh routing context.
func dispatch(cache *tenant.Cache) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := tenant.NormalizeHost(r.Host)
		ten, err := cache.Get(host)
		if errors.Is(err, tenant.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			zap.L().Error("tenant load", zap.String("host", host), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}

		rctx := chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
		ten.Router().ServeHTTP(w, r)
	})
}

// tenantPassword reads per-tenant credentials from Vault, or shares the
// control-plane password when Vault is off.
func tenantPassword(cfg *config.Config, secrets *vault.Client) tenant.PasswordFunc {
	if secrets == nil {
		pw := cfg.Database.GlobalPassword
		return func(context.Context, string) (string, error) { return pw, nil }
	}
	prefix := cfg.Tenant.VaultPath
	if prefix == "" {
		prefix = "secret/linkcard/tenants"
	}
	return func(ctx context.Context, key string) (string, error) {
		return secrets.GetKV(ctx, path.Join(prefix, key), "password", cfg.Vault.TTL)
	}
}

// underRoot resolves dir against root, using def when dir is empty.
func underRoot(root, dir, def string) string {
	if dir == "" {
		dir = def
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
