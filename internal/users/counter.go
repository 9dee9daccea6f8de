// internal/users/counter.go
//
// Account count provider for the signup-allowed flag.
//
// Context
// -------
// Every public `GET /api/v1/config` needs the number of registered accounts
// when signup is enabled with a finite limit.  That endpoint is hit by each
// client page load, so concurrent callers share one in-flight query through
// singleflight, and the last answer is reused for a short TTL.
//
// Notes
// -----
//   - The root account is an ordinary row and is counted.
//   - A failed query is never cached.
//   - `Migrate` creates the accounts table when missing, so a fresh
//     database counts zero accounts instead of failing.
//   - The shared query runs detached from the first caller's cancellation,
//     bounded by queryTimeout, so one aborted request cannot fail every
//     collapsed waiter.
//   - Oxford commas, two spaces after periods.
package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"
)

const (
	createTable = `CREATE TABLE IF NOT EXISTS users (
	    id          BIGINT       NOT NULL PRIMARY KEY,
	    username    VARCHAR(191) NOT NULL UNIQUE,
	    created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	countQuery = `SELECT COUNT(*) FROM users`
)

// queryTimeout bounds the shared count query.
const queryTimeout = 5 * time.Second

// DefaultTTL bounds how stale a reported count may be.
const DefaultTTL = 2 * time.Second

// Counter satisfies serverconfig.UserCounter.
type Counter struct {
	db  *sqlx.DB
	ttl time.Duration
	sfg singleflight.Group

	mu     sync.Mutex
	count  int64
	expiry time.Time
	now    func() time.Time
}

// New returns a Counter.  ttl <= 0 disables reuse and every call queries.
func New(db *sqlx.DB, ttl time.Duration) *Counter {
	return &Counter{db: db, ttl: ttl, now: time.Now}
}

// Migrate creates the users table when missing.
func (c *Counter) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("users: migrate: %w", err)
	}
	return nil
}

// CountUsers returns the number of rows in the users table.
func (c *Counter) CountUsers(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if c.now().Before(c.expiry) {
		n := c.count
		c.mu.Unlock()
		return n, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do("count", func() (interface{}, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queryTimeout)
		defer cancel()

		var n int64
		if err := c.db.GetContext(qctx, &n, countQuery); err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.count, c.expiry = n, c.now().Add(c.ttl)
			c.mu.Unlock()
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Invalidate drops the reused count, e.g. right after a registration.
func (c *Counter) Invalidate() {
	c.mu.Lock()
	c.expiry = time.Time{}
	c.mu.Unlock()
}
