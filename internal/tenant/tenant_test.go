// internal/tenant/tenant_test.go
//
// Loader lookups against a mocked control plane, host helpers, and the
// per-tenant router (component mounting and home fallback).
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/linkcard/internal/component"
	"github.com/yanizio/linkcard/internal/site"
	"github.com/yanizio/linkcard/internal/theme"
)

func TestLoadSiteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+site`).
		WithArgs("card.example").
		WillReturnError(sql.ErrNoRows)

	load := NewLoader(sqlx.NewDb(db, "mysql"), LoaderOptions{})
	_, err = load(context.Background(), "card.example:8080")
	require.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSiteNeedsPasswordWithoutDSN(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "host", "dsn", "theme", "title", "locale",
		"routing_mode", "route_version", "suspended_at", "deleted_at"}
	mock.ExpectQuery(`FROM\s+site`).
		WithArgs("card.example").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, "card.example", "", "base", "Acme", "en_US", "both", 0, nil, nil))
	mock.ExpectQuery(`FROM\s+site_config`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	load := NewLoader(sqlx.NewDb(db, "mysql"), LoaderOptions{})
	_, err = load(context.Background(), "card.example")
	require.ErrorContains(t, err, "no dsn")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHostRules(t *testing.T) {
	cases := []struct {
		in, alias, lookup, key string
	}{
		{"Card.Example:443", "", "card.example", "cardexample"},
		{"my-card.site", "", "my-card.site", "mycardsite"},
		{"localhost:8080", "dev.card.example", "dev.card.example", "devcardexample"},
		{"127.0.0.1", "", "devlocal", "devlocal"},
		{"[::1]:8080", "", "devlocal", "devlocal"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := lookupHost(c.in, c.alias)
			require.Equal(t, c.lookup, got)
			require.Equal(t, c.key, dbKey(got))
		})
	}
}

func TestTenantDSN(t *testing.T) {
	dsn := tenantDSN("db.internal:3307", "cardexample", "pw")
	c, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "cardexample", c.User)
	require.Equal(t, "pw", c.Passwd)
	require.Equal(t, "db.internal:3307", c.Addr)
	require.Equal(t, "cardexample", c.DBName)
	require.True(t, c.ParseTime)

	require.Equal(t, "db.internal:3307", DBAddr("root:%s@tcp(db.internal:3307)/linkcard"))
	require.Equal(t, "", DBAddr("not a dsn"))
}

func TestTenantTitleFallbacks(t *testing.T) {
	ten := &Tenant{Meta: site.Record{Host: "card.example"}}
	require.Equal(t, "card.example", ten.Title())

	ten.Meta.Title = "Acme"
	require.Equal(t, "Acme", ten.Title())

	ten.Config = map[string]string{"site_title": "Acme Cards"}
	require.Equal(t, "Acme Cards", ten.Title())
	require.Equal(t, "both", ten.RoutingMode())
}

type pingComponent struct{}

func (pingComponent) Name() string         { return "ping" }
func (pingComponent) Migrations() []string { return nil }
func (pingComponent) Mount(r chi.Router, t component.TenantInfo) error {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong " + t.Host()))
	})
	return nil
}

func TestRouterMountsComponentsAndFallsBackHome(t *testing.T) {
	component.Register(pingComponent{})

	base := t.TempDir()
	home := filepath.Join(base, "base", "templates", "home.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(home), 0o755))
	require.NoError(t, os.WriteFile(home, []byte(`<p>{{ .Title }}</p>`), 0o644))
	th, err := (&theme.Manager{BaseDir: base}).Load("base")
	require.NoError(t, err)

	ten := &Tenant{
		Meta:  site.Record{Host: "card.example", Title: "Acme", Theme: "base"},
		Theme: th,
	}
	h := ten.Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, "pong card.example", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<p>Acme</p>", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
