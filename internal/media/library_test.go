package media

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 32)...)
	svgBytes = []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
)

func newTestLibrary(t *testing.T, max int64) (*Library, sqlmock.Sqlmock, string) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	lib := NewLibrary(sqlx.NewDb(db, "mysql"), NewDisk(root), "Acme.example:8080", max)
	lib.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }
	return lib, mock, root
}

func TestUploadPNG(t *testing.T) {
	lib, mock, root := newTestLibrary(t, 0)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO media (path, url, mime, size, created_at)`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "image/png", int64(len(pngBytes)), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	item, err := lib.Upload(context.Background(), bytes.NewReader(pngBytes))
	require.NoError(t, err)
	require.Equal(t, int64(42), item.ID)
	require.True(t, strings.HasPrefix(item.Path, "acme.example_8080/2026/03/"), item.Path)
	require.True(t, strings.HasSuffix(item.Path, ".png"))
	require.Equal(t, "/uploads/"+item.Path, item.URL)

	onDisk, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(item.Path)))
	require.NoError(t, err)
	require.Equal(t, pngBytes, onDisk)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadRejections(t *testing.T) {
	lib, _, _ := newTestLibrary(t, 16)
	_, err := lib.Upload(context.Background(), bytes.NewReader(pngBytes))
	require.ErrorIs(t, err, ErrTooLarge)

	lib, _, _ = newTestLibrary(t, 0)
	_, err = lib.Upload(context.Background(), bytes.NewReader(svgBytes))
	require.ErrorIs(t, err, ErrSVGNotAllowed)

	_, err = lib.Upload(context.Background(), strings.NewReader("just text"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = lib.Upload(context.Background(), bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrEmpty)
}

func TestUploadInsertFailureRemovesFile(t *testing.T) {
	lib, mock, root := newTestLibrary(t, 0)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO media`)).
		WillReturnError(errors.New("disk full"))

	_, err := lib.Upload(context.Background(), bytes.NewReader(gifBytes))
	require.Error(t, err)

	var files []string
	_ = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.Empty(t, files)
}

func TestExistsAndURL(t *testing.T) {
	lib, mock, _ := newTestLibrary(t, 0)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM media WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	ok, err := lib.Exists(ctx, 5)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = lib.Exists(ctx, 0)
	require.NoError(t, err)
	require.False(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT url FROM media WHERE id = ? LIMIT 1`)).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)
	_, err = lib.URL(ctx, 9)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiskHandlerScopesToHost(t *testing.T) {
	root := t.TempDir()
	d := NewDisk(root)
	ctx := context.Background()

	_, err := d.Save(ctx, bytes.NewReader(gifBytes), "a.example/2026/01/x.gif")
	require.NoError(t, err)
	_, err = d.Save(ctx, bytes.NewReader(gifBytes), "b.example/2026/01/y.gif")
	require.NoError(t, err)

	h := d.Handler("a.example")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/a.example/2026/01/x.gif", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/b.example/2026/01/y.gif", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/a.example/../b.example/2026/01/y.gif", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
