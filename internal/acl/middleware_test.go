// internal/acl/middleware_test.go
//
// RequirePermission outcomes: anonymous, denied, allowed, and query error.
package acl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/linkcard/internal/auth"
)

const permittedQ = `SELECT 1\s+FROM user_role ur`

func guarded(t *testing.T) (http.Handler, sqlmock.Sqlmock, *int) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "mysql")

	var denied int
	deny := func(w http.ResponseWriter, _ *http.Request, status int) {
		denied = status
		w.WriteHeader(status)
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return RequirePermission(db, "profile", "edit", deny)(ok), mock, &denied
}

func asUser(uid int64) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/profile/admin", nil)
	return r.WithContext(auth.WithUser(context.Background(), uid))
}

func TestRequirePermissionAnonymous(t *testing.T) {
	h, _, denied := guarded(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, *denied)
}

func TestRequirePermissionAllowed(t *testing.T) {
	h, mock, _ := guarded(t)
	mock.ExpectQuery(permittedQ).WithArgs(int64(5), "profile", "edit").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(5))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequirePermissionForbidden(t *testing.T) {
	h, mock, denied := guarded(t)
	mock.ExpectQuery(permittedQ).WithArgs(int64(5), "profile", "edit").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(5))
	require.Equal(t, http.StatusForbidden, *denied)
}

func TestRequirePermissionQueryError(t *testing.T) {
	h, mock, denied := guarded(t)
	mock.ExpectQuery(permittedQ).WithArgs(int64(5), "profile", "edit").
		WillReturnError(errors.New("gone"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(5))
	require.Equal(t, http.StatusInternalServerError, *denied)
}

func TestRequireRole(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	h := RequireRole(sqlx.NewDb(raw, "mysql"), nil, "owner", "admin")(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	mock.ExpectQuery(`SELECT r.name`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("editor"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(5))
	require.Equal(t, http.StatusForbidden, rec.Code)

	mock.ExpectQuery(`SELECT r.name`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("admin"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, asUser(5))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Panics(t, func() { RequireRole(nil, nil) })
}
