// internal/profile/store.go
//
// Key-value settings store on the tenant `setting` table.
//
// Context
// -------
// One row per key; the profile lives under SettingKey as a JSON document.
// Writes replace the whole value (last write wins), which matches the
// aggregate's save semantics.
//
//	CREATE TABLE setting (
//	    `key`      VARCHAR(191) PRIMARY KEY,
//	    value      JSON         NOT NULL,
//	    updated_at TIMESTAMP    NOT NULL
//	);
//
// Notes
// -----
//   - Missing key is not an error; Get returns (nil, nil).
//   - The helper never logs; callers wrap and log.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SettingKey is the row holding the profile document.
const SettingKey = "profile"

// Schema creates the setting table when absent.
const Schema = "CREATE TABLE IF NOT EXISTS setting (" +
	"`key` VARCHAR(191) NOT NULL PRIMARY KEY, " +
	"value JSON NOT NULL, " +
	"updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)"

// Store persists raw setting values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// SQLStore implements Store on sqlx.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLStore wraps a tenant DB pool.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Get returns the raw value for key, or nil when the row does not exist.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = "SELECT value FROM setting WHERE `key` = ? LIMIT 1"
	var raw []byte
	err := s.db.GetContext(ctx, &raw, q, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Put upserts value under key.
func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	const q = "INSERT INTO setting (`key`, value, updated_at) VALUES (?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)"
	_, err := s.db.ExecContext(ctx, q, key, value, s.now().UTC())
	return err
}
