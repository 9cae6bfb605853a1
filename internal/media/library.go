// internal/media/library.go
//
// Tenant media library: the `media` table plus Disk blobs.
//
// Context
// -------
// The profile stores media by ID only.  Library answers "does this ID
// exist" on save and "what is its URL" on read, and accepts new image
// uploads.
//
//	CREATE TABLE media (
//	    id         BIGINT AUTO_INCREMENT PRIMARY KEY,
//	    path       VARCHAR(255) NOT NULL,
//	    url        VARCHAR(255) NOT NULL,
//	    mime       VARCHAR(64)  NOT NULL,
//	    size       BIGINT       NOT NULL,
//	    created_at TIMESTAMP    NOT NULL
//	);
//
// Upload rules
// ------------
//   - At most MaxBytes (5 MB by default).
//   - The type is sniffed from content, never taken from the file name or
//     the client's Content-Type.  JPEG, PNG, GIF, and WebP are accepted.
//   - SVG is refused with its own error so the editor can explain why.
package media

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/metrics"
)

// DefaultMaxBytes is the upload ceiling when none is configured.
const DefaultMaxBytes int64 = 5 << 20

// Schema creates the media table when absent.
const Schema = "CREATE TABLE IF NOT EXISTS media (" +
	"id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
	"path VARCHAR(255) NOT NULL, " +
	"url VARCHAR(255) NOT NULL, " +
	"mime VARCHAR(64) NOT NULL, " +
	"size BIGINT NOT NULL, " +
	"created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)"

// Sentinel errors.
var (
	ErrNotFound        = errors.New("media: not found")
	ErrTooLarge        = errors.New("media: file too large")
	ErrUnsupportedType = errors.New("media: unsupported file type")
	ErrSVGNotAllowed   = errors.New("media: svg uploads are not allowed")
	ErrEmpty           = errors.New("media: empty upload")
)

// allowed maps sniffed MIME types to stored extensions.
var allowed = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Item is one row of the media table.
type Item struct {
	ID        int64     `db:"id"         json:"id"`
	Path      string    `db:"path"       json:"-"`
	URL       string    `db:"url"        json:"url"`
	MIME      string    `db:"mime"       json:"mime"`
	Size      int64     `db:"size"       json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Library is bound to one tenant.
type Library struct {
	db       *sqlx.DB
	disk     *Disk
	host     string
	maxBytes int64
	now      func() time.Time
}

// NewLibrary returns a Library for host.  maxBytes ≤ 0 selects
// DefaultMaxBytes.
func NewLibrary(db *sqlx.DB, disk *Disk, host string, maxBytes int64) *Library {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Library{db: db, disk: disk, host: host, maxBytes: maxBytes, now: time.Now}
}

// MaxBytes reports the upload ceiling.
func (l *Library) MaxBytes() int64 { return l.maxBytes }

// Exists reports whether id is a stored media item.
func (l *Library) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	var n int
	if err := l.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM media WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

// URL returns the public URL of id or ErrNotFound.
func (l *Library) URL(ctx context.Context, id int64) (string, error) {
	var u string
	err := l.db.GetContext(ctx, &u, `SELECT url FROM media WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return u, nil
}

// Upload validates r, writes it to disk, and records it.
func (l *Library) Upload(ctx context.Context, r io.Reader) (Item, error) {
	item, err := l.upload(ctx, r)
	metrics.MediaUploads.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		zap.L().Info("media upload rejected", zap.String("host", l.host), zap.Error(err))
		return Item{}, err
	}
	zap.L().Info("media uploaded",
		zap.String("host", l.host),
		zap.Int64("id", item.ID),
		zap.String("mime", item.MIME),
		zap.Int64("size", item.Size))
	return item, nil
}

func (l *Library) upload(ctx context.Context, r io.Reader) (Item, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return Item{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Item{}, ErrEmpty
	}
	if int64(len(data)) > l.maxBytes {
		return Item{}, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if mt.Is("image/svg+xml") {
		return Item{}, ErrSVGNotAllowed
	}
	ext, ok := allowed[mt.String()]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	now := l.now().UTC()
	rel := fmt.Sprintf("%s/%04d/%02d/%s.%s",
		hostDir(l.host), now.Year(), int(now.Month()), uuid.NewString(), ext)

	url, err := l.disk.Save(ctx, bytes.NewReader(data), rel)
	if err != nil {
		return Item{}, err
	}

	item := Item{Path: rel, URL: url, MIME: mt.String(), Size: int64(len(data)), CreatedAt: now}
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO media (path, url, mime, size, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.Path, item.URL, item.MIME, item.Size, item.CreatedAt)
	if err != nil {
		_ = l.disk.Delete(rel)
		return Item{}, fmt.Errorf("insert media: %w", err)
	}
	if item.ID, err = res.LastInsertId(); err != nil {
		return Item{}, fmt.Errorf("media id: %w", err)
	}
	return item, nil
}

// resultLabel maps an upload error to the metrics label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, ErrSVGNotAllowed):
		return "svg"
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrEmpty):
		return "unsupported"
	default:
		return "error"
	}
}
