// Package database centralises sqlx connection helpers.  Two drivers are
// supported:
//
//	mysql   – go-sql-driver/mysql, the production default.  Also works with
//	          MariaDB.
//	sqlite  – modernc.org/sqlite, pure Go, for single-node installs and
//	          tests.  The DSN is a file path; WAL and busy_timeout pragmas
//	          are applied to every pooled connection.
//
// Public entry points:
//
//	Open(ctx, driver, dsn)                   – defaults for a process-wide pool.
//	OpenWithOptions(ctx, driver, dsn, opts)  – fine-grained control.
//
// Both helpers Ping the database, retrying on failure, before returning so
// callers can fail fast during bootstrap.  Callers should Close() the
// returned *sqlx.DB when no longer needed.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options tunes the pool and the bootstrap ping.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int           // extra ping attempts after the first
	RetryBackoff    time.Duration // wait between attempts
	BusyTimeout     time.Duration // sqlite only
}

// DefaultOptions returns 15 max open, 5 idle, a 30-minute connection
// lifetime, and two ping retries.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		Retries:         2,
		RetryBackoff:    500 * time.Millisecond,
		BusyTimeout:     5 * time.Second,
	}
}

// Open connects with DefaultOptions.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, driver, dsn, DefaultOptions())
}

// OpenWithOptions connects, sizes the pool, and pings until the database
// answers or the retries are spent.
func OpenWithOptions(ctx context.Context, driver, dsn string, opts Options) (*sqlx.DB, error) {
	switch driver {
	case DriverMySQL:
	case DriverSQLite:
		dsn = sqliteDSN(dsn, opts.BusyTimeout)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := pingWithRetry(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}
	return db, nil
}

func pingWithRetry(ctx context.Context, db *sqlx.DB, opts Options) error {
	var err error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == opts.Retries {
			break
		}
		zap.S().Warnw("database ping failed, retrying", "attempt", attempt+1, "err", err)
		t := time.NewTimer(opts.RetryBackoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// sqliteDSN builds a modernc DSN whose pragmas apply to every connection in
// the pool.
func sqliteDSN(path string, busy time.Duration) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, busy.Milliseconds(),
	)
}
