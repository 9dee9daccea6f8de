// cmd/server/main.go
//
// siteconf – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load process configuration (.env → conf/global.yaml → SITECONF_ env).
//
//  2. Start the daily rotating logger.
//
//  3. Resolve `vault:` secrets when any are configured.
//
//  4. Open the database and create the custom_config and users tables
//     when missing.
//
//  5. Build the configuration service, register change hooks (pipeline
//     policy, client page cache), and load the persisted overrides.  A
//     broken override set is logged and the defaults are served.
//
//  6. Serve HTTP until SIGINT or SIGTERM, then drain with a deadline.
//
// Large comment blocks are framed by blank "//" lines; inline comments use
// a single "//".
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/siteconf/internal/api"
	"github.com/yanizio/siteconf/internal/clienthtml"
	"github.com/yanizio/siteconf/internal/config"
	"github.com/yanizio/siteconf/internal/database"
	"github.com/yanizio/siteconf/internal/logger"
	"github.com/yanizio/siteconf/internal/overrides"
	"github.com/yanizio/siteconf/internal/pipeline"
	"github.com/yanizio/siteconf/internal/server"
	"github.com/yanizio/siteconf/internal/serverconfig"
	"github.com/yanizio/siteconf/internal/users"
	"github.com/yanizio/siteconf/internal/vault"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("siteconf: %v", err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Process configuration and logger ────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := logger.New(cfg.Paths.Abs(cfg.Log.Dir), cfg.Log.Level, cfg.Log.Console)
	if err != nil {
		return err
	}
	defer lg.Sync()

	if needsVault(cfg) {
		vc, err := vault.New(ctx, 5*time.Minute)
		if err != nil {
			return err
		}
		if err := config.ResolveSecrets(ctx, cfg, vc); err != nil {
			return err
		}
		lg.Infow("secrets resolved through vault")
	}

	//
	// ── 2.  Database ────────────────────────────────────────────────────
	//
	opts := database.DefaultOptions()
	opts.MaxOpenConns = cfg.Database.MaxOpenConns
	opts.MaxIdleConns = cfg.Database.MaxIdleConns
	opts.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	dsn := cfg.Database.DataSource()
	if cfg.Database.Driver == database.DriverSQLite {
		dsn = cfg.Paths.Abs(dsn)
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return err
		}
	}
	db, err := database.OpenWithOptions(ctx, cfg.Database.Driver, dsn, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	store := overrides.New(db)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	counter := users.New(db, cfg.Server.UserCountTTL)
	if err := counter.Migrate(ctx); err != nil {
		return err
	}

	//
	// ── 3.  Configuration service and hooks ─────────────────────────────
	//
	svc := serverconfig.New(store, counter,
		serverconfig.WithLogger(lg),
		serverconfig.WithVersion(cfg.Server.Version))

	policy := pipeline.NewHolder(svc.Custom())
	page := clienthtml.New(svc, cfg.Server.PageCacheSize)
	svc.OnChange(policy.Apply)
	svc.OnChange(page.Purge)

	if err := svc.Load(ctx); err != nil {
		var le *serverconfig.StartupLoadError
		if !errors.As(err, &le) {
			return err
		}
		lg.Errorw("serving default configuration", "err", err)
	}

	//
	// ── 4.  HTTP ────────────────────────────────────────────────────────
	//
	handler := api.New(svc, api.Options{
		AdminToken:     cfg.HTTP.AdminToken,
		WriteRateLimit: cfg.HTTP.WriteRateLimit,
		ForceHTTPS:     cfg.HTTP.ForceHTTPS,
		Page:           page,
		Health:         db.PingContext,
		Pipeline:       policy,
	})
	srv := server.New(cfg.HTTP.ListenAddr, handler, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Infow("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		lg.Infow("http shutting down", "timeout", cfg.HTTP.ShutdownTimeout)
		return srv.Shutdown(sctx)
	})

	err = g.Wait()
	zap.S().Infow("siteconf stopped", "err", err)
	return err
}

func needsVault(c *config.Config) bool {
	return vault.IsRef(c.HTTP.AdminToken) || vault.IsRef(c.Database.Password) || vault.IsRef(c.Database.DSN)
}
