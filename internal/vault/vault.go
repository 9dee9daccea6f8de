// internal/vault/vault.go
//
// Secret resolution through HashiCorp Vault.
//
// Context
// -------
// Process configuration may reference a secret instead of embedding it:
//
//	database:
//	  password: "vault:secret/siteconf/db#password"
//	http:
//	  admin_token: "vault:secret/siteconf/http#admin_token"
//
// A reference is `vault:<mount>/<path>#<key>` against a KV-v2 engine.
// `Resolve` returns plain strings unchanged and swaps references for the
// stored value, so callers can pass every configured secret through it.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, ttl)            // during boot, reads VAULT_ADDR.
//  2. pw,  err := cli.Resolve(ctx, cfg.Password)  // anywhere in the app.
//
// Notes
// -----
//   - Values are cached per path#key for the configured TTL.
//   - The token is renewed in the background until ctx is cancelled.
//   - Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// Prefix marks a configuration value as a Vault reference.
const Prefix = "vault:"

// ErrMalformedRef is returned for references missing a path or key.
var ErrMalformedRef = errors.New("vault: reference must look like vault:<mount>/<path>#<key>")

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

//
// Reader
//

// Reader fetches one KV-v2 secret.  The default implementation wraps the
// Vault SDK; tests substitute a map.
type Reader interface {
	ReadKV(ctx context.Context, mount, path string) (map[string]any, error)
}

type kvReader struct{ api *vault.Client }

func (r kvReader) ReadKV(ctx context.Context, mount, path string) (map[string]any, error) {
	sec, err := r.api.KVv2(mount).Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return sec.Data, nil
}

//
// Client
//

// Client is safe for concurrent use.
type Client struct {
	r   Reader
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	cache map[string]cached
}

type cached struct {
	val string
	exp time.Time
}

// New connects using VAULT_ADDR and VAULT_TOKEN and starts token renewal.
func New(ctx context.Context, ttl time.Duration) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	go renewLoop(ctx, api)
	return NewWithReader(kvReader{api: api}, ttl), nil
}

// NewWithReader builds a Client over any Reader.  ttl <= 0 disables
// caching.
func NewWithReader(r Reader, ttl time.Duration) *Client {
	return &Client{r: r, ttl: ttl, now: time.Now, cache: make(map[string]cached)}
}

// Resolve returns v unchanged unless it is a reference.
func (c *Client) Resolve(ctx context.Context, v string) (string, error) {
	if !IsRef(v) {
		return v, nil
	}
	path, key, ok := strings.Cut(strings.TrimPrefix(v, Prefix), "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedRef, v)
	}
	return c.Secret(ctx, path, key)
}

// Secret fetches key from the KV-v2 secret at path (`<mount>/<rel>`).
func (c *Client) Secret(ctx context.Context, path, key string) (string, error) {
	mount, rel, ok := strings.Cut(path, "/")
	if !ok || mount == "" || rel == "" || key == "" {
		return "", fmt.Errorf("%w: %s#%s", ErrMalformedRef, path, key)
	}
	canonical := path + "#" + key

	if c.ttl > 0 {
		c.mu.RLock()
		cv, hit := c.cache[canonical]
		c.mu.RUnlock()
		if hit && c.now().Before(cv.exp) {
			return cv.val, nil
		}
	}

	data, err := c.r.ReadKV(ctx, mount, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", path, err)
	}
	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, path)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[canonical] = cached{val: s, exp: c.now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return s, nil
}

//
// Background token renewal
//

func renewLoop(ctx context.Context, api *vault.Client) {
	log := zap.S().With("component", "vault")
	for ctx.Err() == nil {
		sec, err := api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token not renewable, rechecking in 1h")
			sleep(ctx, time.Hour)
			continue
		}

		w, err := api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		go w.Start()
		watch(ctx, w, log)
		w.Stop()
		sleep(ctx, 15*time.Second)
	}
}

func watch(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("token renewed", "ttl", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
