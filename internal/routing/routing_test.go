package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const selectAliases = "SELECT alias_path, target_path FROM route_alias"

type fakeTenant struct {
	mode    string
	version int
	cache   *AliasCache
}

func (f *fakeTenant) RoutingMode() string     { return f.mode }
func (f *fakeTenant) RouteVersion() int       { return f.version }
func (f *fakeTenant) AliasCache() *AliasCache { return f.cache }

func newCache(t *testing.T) (*AliasCache, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewAliasCache(sqlx.NewDb(raw, "mysql"), time.Minute), mock
}

func expectAliases(mock sqlmock.Sqlmock, pairs ...string) {
	rows := sqlmock.NewRows([]string{"alias_path", "target_path"})
	for i := 0; i+1 < len(pairs); i += 2 {
		rows.AddRow(pairs[i], pairs[i+1])
	}
	mock.ExpectQuery(regexp.QuoteMeta(selectAliases)).WillReturnRows(rows)
}

func serve(mw func(http.Handler) http.Handler, path string) (int, string) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, seen
}

func TestMiddlewareModes(t *testing.T) {
	cases := []struct {
		name, mode, path string
		status           int
		seen             string
	}{
		{"both rewrites hit", RouteModeBoth, "/mm", http.StatusOK, "/admin"},
		{"both passes miss", RouteModeBoth, "/card", http.StatusOK, "/card"},
		{"alias-only 404s miss", RouteModeAliasOnly, "/card", http.StatusNotFound, ""},
		{"alias-only rewrites hit", RouteModeAliasOnly, "/mm", http.StatusOK, "/admin"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cache, mock := newCache(t)
			expectAliases(mock, "/mm", "/admin")

			status, seen := serve(Middleware(&fakeTenant{mode: c.mode, cache: cache}), c.path)
			require.Equal(t, c.status, status)
			require.Equal(t, c.seen, seen)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMiddlewareAbsoluteSkipsTable(t *testing.T) {
	cache, mock := newCache(t)

	status, seen := serve(Middleware(&fakeTenant{mode: RouteModeAbsolute, cache: cache}), "/mm")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/mm", seen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshFollowsVersionAndTTL(t *testing.T) {
	cache, mock := newCache(t)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }
	ctx := context.Background()

	expectAliases(mock, "/a", "/admin")
	require.NoError(t, cache.Refresh(ctx, 1))
	require.NoError(t, cache.Refresh(ctx, 1)) // fresh, no query

	expectAliases(mock, "/b", "/admin")
	require.NoError(t, cache.Refresh(ctx, 2))
	_, ok := cache.Resolve("/a")
	require.False(t, ok)

	clock = clock.Add(2 * time.Minute)
	expectAliases(mock, "/c", "/admin")
	require.NoError(t, cache.Refresh(ctx, 2))
	got, ok := cache.Resolve("/c")
	require.True(t, ok)
	require.Equal(t, "/admin", got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshFailureKeepsMirror(t *testing.T) {
	cache, mock := newCache(t)
	expectAliases(mock, "/mm", "/admin")
	require.NoError(t, cache.Refresh(context.Background(), 1))

	mock.ExpectQuery(regexp.QuoteMeta(selectAliases)).WillReturnError(errors.New("gone"))
	status, seen := serve(Middleware(&fakeTenant{mode: RouteModeBoth, version: 2, cache: cache}), "/mm")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/admin", seen)
}

func TestReplaceTarget(t *testing.T) {
	cache, mock := newCache(t)
	expectAliases(mock, "/mm", "/admin", "/mm/", "/admin", "/about", "/pages/about")
	require.NoError(t, cache.Load(context.Background()))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM route_alias WHERE target_path = ?")).
		WithArgs("/admin").
		WillReturnResult(sqlmock.NewResult(0, 2))
	for _, a := range []string{"/me", "/me/"} {
		mock.ExpectExec(regexp.QuoteMeta("REPLACE INTO route_alias (alias_path, target_path) VALUES (?, ?)")).
			WithArgs(a, "/admin").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, cache.ReplaceTarget(context.Background(), "/admin", "/me", "/me/"))

	_, ok := cache.Resolve("/mm")
	require.False(t, ok)
	got, _ := cache.Resolve("/me/")
	require.Equal(t, "/admin", got)
	got, _ = cache.Resolve("/about")
	require.Equal(t, "/pages/about", got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTargetRollsBack(t *testing.T) {
	cache, mock := newCache(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM route_alias").WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := cache.ReplaceTarget(context.Background(), "/admin", "/me")
	require.ErrorContains(t, err, "locked")
	_, ok := cache.Resolve("/me")
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeMode(t *testing.T) {
	require.Equal(t, RouteModeBoth, NormalizeMode(""))
	require.Equal(t, RouteModeBoth, NormalizeMode("weird"))
	require.Equal(t, RouteModeAliasOnly, NormalizeMode("alias"))
	require.Equal(t, RouteModeAbsolute, NormalizeMode("absolute"))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Links":           "my-links",
		"  --Hello__World--": "hello-world",
		"Links, 2024!":       "links-2024",
		"Café Olé":           "caf-ol",
		"***":                "",
		"":                   "",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), "input %q", in)
	}

	long := Slugify(strings.Repeat("ab ", 60))
	require.LessOrEqual(t, len(long), MaxSlugLen)
	require.False(t, strings.HasSuffix(long, "-"))
}
