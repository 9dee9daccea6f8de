// internal/overrides/store.go
//
// Durable override store.
//
// Context
// -------
// Only the leaves an administrator explicitly overrode are persisted, one
// row per leaf in the `custom_config` table:
//
//	CREATE TABLE custom_config (
//	    path        VARCHAR(191) NOT NULL PRIMARY KEY,
//	    value       TEXT         NOT NULL,
//	    updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// `value` holds the JSON encoding of the leaf (`"blur"`, `5`, `false`).  An
// empty table means "fully defaulted".
//
// Workflow
// --------
//  1. `Get` reads every row and decodes it into a typed settings.Overrides.
//  2. `Put` validates the whole set, then replaces the table contents in a
//     single transaction.  Either every row lands or none does.
//  3. `Clear` deletes every row.
//
// Every call completes its write before returning, so a restart always
// reloads the last successfully written set.
//
// Notes
// -----
//   - Queries use `?` placeholders and portable DDL, so the same code runs
//     against MySQL and SQLite.
//   - Storage failures are wrapped in *PersistenceError.
//   - Oxford commas, two spaces after periods.
package overrides

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/siteconf/internal/settings"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS custom_config (
	    path        VARCHAR(191) NOT NULL PRIMARY KEY,
	    value       TEXT         NOT NULL,
	    updated_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	selectAll = `SELECT path, value FROM custom_config ORDER BY path`
	deleteAll = `DELETE FROM custom_config`
	insertOne = `INSERT INTO custom_config (path, value) VALUES (?, ?)`
)

// Store persists override sets through sqlx.  Safe for concurrent use;
// callers serialise writers themselves when ordering matters.
type Store struct {
	db *sqlx.DB
}

// New wraps an open pool.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

// Migrate creates the table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return &PersistenceError{Op: "migrate", Err: err}
	}
	return nil
}

// Get loads the persisted override set.
func (s *Store) Get(ctx context.Context) (settings.Overrides, error) {
	rows := make([]struct {
		Path  string `db:"path"`
		Value string `db:"value"`
	}, 0, 16)

	if err := s.db.SelectContext(ctx, &rows, selectAll); err != nil {
		return settings.Overrides{}, &PersistenceError{Op: "get", Err: err}
	}

	var ov settings.Overrides
	for _, r := range rows {
		if err := ov.Set(r.Path, []byte(r.Value)); err != nil {
			return settings.Overrides{}, &PersistenceError{Op: "get", Err: fmt.Errorf("row %q: %w", r.Path, err)}
		}
	}
	return ov, nil
}

// Put replaces the persisted set with ov.  Invalid sets are rejected with a
// *settings.ValidationError before any row is touched.
func (s *Store) Put(ctx context.Context, ov settings.Overrides) error {
	if vs := settings.ValidateLeaves(ov); len(vs) > 0 {
		return &settings.ValidationError{Violations: vs}
	}

	leaves := ov.Leaves()
	values := make([]string, len(leaves))
	for i, l := range leaves {
		b, err := json.Marshal(l.Value)
		if err != nil {
			return &PersistenceError{Op: "put", Err: fmt.Errorf("encode %s: %w", l.Path, err)}
		}
		values[i] = string(b)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "put", Err: err}
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	if _, err := tx.ExecContext(ctx, deleteAll); err != nil {
		return &PersistenceError{Op: "put", Err: err}
	}
	for i, l := range leaves {
		if _, err := tx.ExecContext(ctx, insertOne, l.Path, values[i]); err != nil {
			return &PersistenceError{Op: "put", Err: fmt.Errorf("insert %s: %w", l.Path, err)}
		}
	}
	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "put", Err: err}
	}
	return nil
}

// Clear removes every override.  Clearing an empty table succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, deleteAll); err != nil {
		return &PersistenceError{Op: "clear", Err: err}
	}
	return nil
}
