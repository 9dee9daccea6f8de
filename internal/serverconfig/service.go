// internal/serverconfig/service.go
//
// Live configuration cache and the public configuration API.
//
// Context
// -------
// `Service` owns the single current `Snapshot`: the merged configuration
// plus the override set it was built from.  The snapshot lives in an
// `atomic.Pointer`, so request handlers read it lock-free and always see
// either the previous or the next snapshot in full, never a mix.
//
// Writers (`Load`, `Update`, `Delete`) serialise on one mutex and follow the
// same sequence:
//
//  1. Validate the proposed tree.  Failure returns every violation and
//     changes nothing.
//  2. Persist through the Store.  Failure returns the storage error and
//     changes nothing; the process keeps serving the last good snapshot.
//  3. Merge defaults and overrides into a fresh tree.
//  4. Swap the snapshot pointer.
//  5. Run each registered change hook exactly once.
//
// Notes
// -----
//   - A body sent to `Update` is overlaid on the current overrides: leaves
//     it omits keep their current value.  A complete tree therefore
//     replaces every leaf.
//   - `Load` never fails hard.  A broken override set is replaced by the
//     defaults and reported as *StartupLoadError for the caller to log.
//   - Oxford commas, two spaces after periods.
package serverconfig

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/metrics"
	"github.com/yanizio/siteconf/internal/settings"
)

//
// Collaborators
//

// Store is the durable override set.  *overrides.Store satisfies it.
type Store interface {
	Get(ctx context.Context) (settings.Overrides, error)
	Put(ctx context.Context, ov settings.Overrides) error
	Clear(ctx context.Context) error
}

// UserCounter reports how many accounts exist, root included.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// CounterFunc adapts a plain function to UserCounter.
type CounterFunc func(ctx context.Context) (int64, error)

func (f CounterFunc) CountUsers(ctx context.Context) (int64, error) { return f(ctx) }

//
// Snapshot and change hooks
//

// Snapshot is one immutable generation of the live configuration.
type Snapshot struct {
	Config     settings.CustomConfig
	Overrides  settings.Overrides
	Generation uint64
	LoadedAt   time.Time
}

// Change describes one installed snapshot.  Paths lists the leaves whose
// merged value changed and may be empty.
type Change struct {
	Op    string // load, update, delete
	Old   *Snapshot
	New   *Snapshot
	Paths []string
}

// Hook reacts to a newly installed snapshot.  Hooks run synchronously on
// the writer's goroutine and must not call back into the Service's write
// methods.
type Hook func(ctx context.Context, c Change)

//
// Service
//

// Service is safe for concurrent use.  Create once at startup.
type Service struct {
	store   Store
	users   UserCounter
	version string
	log     *zap.SugaredLogger

	mu      sync.Mutex // serialises writers and guards hooks
	hooks   []Hook
	current atomic.Pointer[Snapshot]
}

// Option customises a Service.
type Option func(*Service)

// WithLogger replaces the global sugared logger.
func WithLogger(l *zap.SugaredLogger) Option { return func(s *Service) { s.log = l } }

// WithVersion sets the server version reported by Config.
func WithVersion(v string) Option { return func(s *Service) { s.version = v } }

// New returns a Service serving the compiled-in defaults until Load runs.
func New(store Store, users UserCounter, opts ...Option) *Service {
	s := &Service{
		store:   store,
		users:   users,
		version: "dev",
		log:     zap.S(),
	}
	for _, o := range opts {
		o(s)
	}
	s.current.Store(&Snapshot{Config: settings.Defaults(), LoadedAt: time.Now()})
	return s
}

// OnChange registers h.  Hooks registered before Load also observe the
// startup snapshot.
func (s *Service) OnChange(h Hook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

// Snapshot returns the current snapshot.  Callers must treat it as
// read-only.
func (s *Service) Snapshot() *Snapshot { return s.current.Load() }

// Load installs the persisted override set.  On any read or validation
// failure the defaults are installed instead and a *StartupLoadError is
// returned.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ov, err := s.store.Get(ctx)
	if err == nil {
		if vs := settings.ValidateLeaves(ov); len(vs) > 0 {
			err = &settings.ValidationError{Violations: vs}
		}
	}
	if err != nil {
		metrics.ConfigLoadErrorsTotal.Inc()
		s.install(ctx, "load", settings.Overrides{})
		return &StartupLoadError{Err: err}
	}

	snap := s.install(ctx, "load", ov)
	s.log.Infow("custom config loaded", "overrides", snap.Overrides.Len(), "generation", snap.Generation)
	return nil
}

// Update validates body, overlays it on the current overrides, persists
// the result, and installs it.
func (s *Service) Update(ctx context.Context, body settings.Overrides) (*Snapshot, error) {
	if vs := settings.Validate(body); len(vs) > 0 {
		metrics.ConfigChangeErrorsTotal.WithLabelValues("update", "validation").Inc()
		return nil, &settings.ValidationError{Violations: vs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := settings.Overlay(s.current.Load().Overrides, body)
	if err := s.store.Put(ctx, next); err != nil {
		s.fail("update", err)
		return nil, err
	}

	snap := s.install(ctx, "update", next)
	metrics.ConfigChangesTotal.WithLabelValues("update").Inc()
	s.log.Infow("custom config updated", "overrides", snap.Overrides.Len(), "generation", snap.Generation)
	return snap, nil
}

// Delete drops every override and installs the defaults.  Deleting with no
// overrides set succeeds.
func (s *Service) Delete(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		s.fail("delete", err)
		return nil, err
	}

	snap := s.install(ctx, "delete", settings.Overrides{})
	metrics.ConfigChangesTotal.WithLabelValues("delete").Inc()
	s.log.Infow("custom config deleted", "generation", snap.Generation)
	return snap, nil
}

// Custom returns the merged tree for the admin surface.
func (s *Service) Custom() settings.CustomConfig { return s.current.Load().Config }

// Lookup returns one leaf of the merged tree.
func (s *Service) Lookup(path string) (any, error) {
	return settings.Lookup(s.current.Load().Config, path)
}

// About returns the public instance description.
func (s *Service) About() AboutView { return newAboutView(s.current.Load().Config) }

// Config returns the public server view.  It never fails: when the user
// count is unavailable signup is reported closed.
func (s *Service) Config(ctx context.Context) ServerConfigView {
	snap := s.current.Load()
	su := snap.Config.Signup

	var count int64
	if su.Enabled && su.Limit != -1 {
		n, err := s.users.CountUsers(ctx)
		if err != nil {
			s.log.Warnw("user count unavailable, reporting signup closed", "err", err)
			return newServerConfigView(snap.Config, s.version, false)
		}
		count = n
	}
	return newServerConfigView(snap.Config, s.version, SignupAllowed(su, count))
}

//
// helpers (callers hold s.mu)
//

func (s *Service) install(ctx context.Context, op string, ov settings.Overrides) *Snapshot {
	old := s.current.Load()
	next := &Snapshot{
		Config:     settings.Merge(settings.Defaults(), ov),
		Overrides:  ov,
		Generation: old.Generation + 1,
		LoadedAt:   time.Now(),
	}
	s.current.Store(next)

	metrics.ConfigGeneration.Set(float64(next.Generation))
	metrics.ConfigOverrides.Set(float64(ov.Len()))

	change := Change{Op: op, Old: old, New: next, Paths: settings.Diff(old.Config, next.Config)}
	for _, h := range s.hooks {
		h(ctx, change)
	}
	return next
}

func (s *Service) fail(op string, err error) {
	reason := "persistence"
	if settings.IsValidationError(err) {
		reason = "validation"
	}
	metrics.ConfigChangeErrorsTotal.WithLabelValues(op, reason).Inc()
	s.log.Errorw("custom config "+op+" failed", "reason", reason, "err", err)
}
