// Package database centralises sqlx connection helpers.  The default driver
// is go-sql-driver/mysql, which also works with MariaDB and Cockroach when
// configured for the MySQL wire protocol.
//
// Public entry points:
//
//	Open(dsn)                           – quick helper with conservative pool sizes.
//	OpenWithOptions(ctx, dsn, Options)  – fine-grained control plus ping retries.
//	Migrate(ctx, db, stmts...)          – idempotent CREATE TABLE IF NOT EXISTS runner.
//
// Both open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes one pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra ping attempts after the first
	RetryBackoff    time.Duration // doubled after each failed attempt
}

// DefaultOptions suits the process-wide control-plane pool.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// TenantOptions keeps per-tenant resource usage small.
func TenantOptions() Options {
	return Options{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         2,
		RetryBackoff:    500 * time.Millisecond,
	}
}

// Open returns a *sqlx.DB with DefaultOptions.  Suitable for process-wide
// pools or for test setups.
func Open(dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(context.Background(), dsn, DefaultOptions())
}

// OpenWithOptions opens a pool and pings it, retrying per opts.
func OpenWithOptions(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := ping(ctx, db, opts); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sqlx.DB, opts Options) error {
	wait := opts.RetryBackoff
	var err error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == opts.Retries {
			break
		}
		zap.L().Debug("db ping retry", zap.Int("attempt", attempt+1), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("ping database: %w", err)
}

// Migrate runs each statement in order.  Statements must be idempotent
// (CREATE TABLE IF NOT EXISTS ...); the first failure aborts the run.
func Migrate(ctx context.Context, db *sqlx.DB, stmts ...string) error {
	for i, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
