// internal/config/model.go
//
// Typed process configuration.
//
// Context
// -------
// These structs define the shape of the tree that `loader.go` builds from
// three overlay layers:
//
//   - optional `.env`                            – dotenv values,
//   - `conf/global.yaml`                         – primary static file,
//   - `SITECONF_`-prefixed environment overrides – highest precedence.
//
// This is the operator's configuration (listen address, database, logs).
// The administrator-editable instance settings live in the database and are
// handled by internal/serverconfig.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`.  Durations accept Go syntax ("10s").
//   - Secret fields may hold `vault:` references until ResolveSecrets runs.
//   - The `Paths` block is filled at runtime; YAML must not try to set it.
//   - Oxford commas, two spaces after periods.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	AdminToken      string        `koanf:"admin_token"      validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	WriteRateLimit  int           `koanf:"write_rate_limit" validate:"min=0"` // per client per minute, 0 = off
}

//
// Database section
//

// Database selects the driver and connection string.
//
// For MySQL the DSN may carry one `%s` verb for the password, so the host,
// port, and flags stay in YAML while the secret comes from Vault.
type Database struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=mysql sqlite"`
	DSN             string        `koanf:"dsn"               validate:"required"`
	Password        string        `koanf:"password"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DataSource returns the DSN with the password substituted.
func (d Database) DataSource() string {
	if strings.Contains(d.DSN, "%s") {
		return fmt.Sprintf(d.DSN, d.Password)
	}
	return d.DSN
}

//
// Log section
//

type Log struct {
	Dir     string `koanf:"dir"`
	Level   string `koanf:"level"   validate:"omitempty,oneof=debug info warn error"`
	Console bool   `koanf:"console"`
}

//
// Server section
//

type Server struct {
	Version       string        `koanf:"version"`
	UserCountTTL  time.Duration `koanf:"user_count_ttl"`
	PageCacheSize int           `koanf:"page_cache_size" validate:"min=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // SITECONF_ROOT or discovered parent
}

// Abs resolves p against Root unless it is already absolute.
func (p Paths) Abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Log      Log      `koanf:"log"`
	Server   Server   `koanf:"server"`
	Paths    Paths    `koanf:"-"`
}

// applyDefaults fills zero values the YAML left out.
func (c *Config) applyDefaults() {
	setDur := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}
	setDur(&c.HTTP.ReadTimeout, 10*time.Second)
	setDur(&c.HTTP.WriteTimeout, 15*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 10*time.Second)
	setDur(&c.Database.ConnMaxLifetime, 30*time.Minute)
	setDur(&c.Server.UserCountTTL, 2*time.Second)

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 15
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Version == "" {
		c.Server.Version = "dev"
	}
	if c.Server.PageCacheSize == 0 {
		c.Server.PageCacheSize = 64
	}
}
