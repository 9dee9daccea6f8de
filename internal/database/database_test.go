package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	got := sqliteDSN("/var/lib/siteconf.db", 5*time.Second)
	require.Equal(t,
		"file:/var/lib/siteconf.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		got)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siteconf.db")

	db, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.Get(&one, "SELECT 1"))
	require.Equal(t, 1, one)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "whatever")
	require.ErrorContains(t, err, "unsupported driver")
}
