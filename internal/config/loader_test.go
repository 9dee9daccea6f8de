package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const baseYAML = `
http:
  listen_addr: ":8080"
  admin_token: "vault:secret/siteconf/http#admin_token"
database:
  driver: mysql
  dsn: "siteconf:%s@tcp(db:3306)/siteconf"
  password: "vault:secret/siteconf/db#password"
server:
  version: "1.2.3"
`

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

func TestLoadFromYAMLWithDefaults(t *testing.T) {
	root := writeRoot(t, baseYAML)

	cfg, err := LoadFrom(root)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	require.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, "mysql", cfg.Database.Driver)
	require.Equal(t, 15, cfg.Database.MaxOpenConns)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "1.2.3", cfg.Server.Version)
	require.Equal(t, root, cfg.Paths.Root)
	require.Same(t, cfg, Get())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	root := writeRoot(t, baseYAML)
	t.Setenv("SITECONF_HTTP__LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("SITECONF_HTTP__READ_TIMEOUT", "3s")
	t.Setenv("SITECONF_DATABASE__DRIVER", "sqlite")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.HTTP.ListenAddr)
	require.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	require.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	root := writeRoot(t, strings.Replace(baseYAML, "driver: mysql", "driver: postgres", 1))

	_, err := LoadFrom(root)
	require.ErrorContains(t, err, "database.driver: oneof")
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	require.Error(t, err)
}

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, v string) (string, error) {
	if !strings.HasPrefix(v, "vault:") {
		return v, nil
	}
	if s, ok := f[v]; ok {
		return s, nil
	}
	return "", errors.New("no such secret")
}

func TestResolveSecrets(t *testing.T) {
	cfg, err := LoadFrom(writeRoot(t, baseYAML))
	require.NoError(t, err)

	r := fakeResolver{
		"vault:secret/siteconf/http#admin_token": "tok",
		"vault:secret/siteconf/db#password":      "pw",
	}
	require.NoError(t, ResolveSecrets(context.Background(), cfg, r))
	require.Equal(t, "tok", cfg.HTTP.AdminToken)
	require.Equal(t, "siteconf:pw@tcp(db:3306)/siteconf", cfg.Database.DataSource())

	cfg.Database.Password = "vault:secret/missing#x"
	require.ErrorContains(t, ResolveSecrets(context.Background(), cfg, r), "database.password")
}

func TestPathsAbs(t *testing.T) {
	p := Paths{Root: "/srv/siteconf"}
	require.Equal(t, "/srv/siteconf/logs", p.Abs("logs"))
	require.Equal(t, "/var/log/siteconf", p.Abs("/var/log/siteconf"))
}
