package users_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/database"
	"github.com/yanizio/siteconf/internal/overrides"
	"github.com/yanizio/siteconf/internal/serverconfig"
	"github.com/yanizio/siteconf/internal/users"
)

// A freshly created database must report signup open with the default
// limit of four accounts.
func TestFreshDatabaseAllowsSignup(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "siteconf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := overrides.New(db)
	require.NoError(t, store.Migrate(ctx))
	counter := users.New(db, 0)
	require.NoError(t, counter.Migrate(ctx))
	require.NoError(t, counter.Migrate(ctx), "Migrate must be idempotent")

	n, err := counter.CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	svc := serverconfig.New(store, counter, serverconfig.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, svc.Load(ctx))
	require.True(t, svc.Config(ctx).Signup.Allowed)

	for i := 1; i <= 4; i++ {
		_, err := db.ExecContext(ctx, `INSERT INTO users (id, username) VALUES (?, ?)`, i, "user"+string(rune('0'+i)))
		require.NoError(t, err)
	}
	require.False(t, svc.Config(ctx).Signup.Allowed, "limit of four reached")
}
