package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/siteconf/internal/api"
	"github.com/yanizio/siteconf/internal/overrides"
	"github.com/yanizio/siteconf/internal/pipeline"
	"github.com/yanizio/siteconf/internal/serverconfig"
	"github.com/yanizio/siteconf/internal/settings"
	"github.com/yanizio/siteconf/internal/settings/settingstest"
)

const token = "test-admin-token"

type memStore struct {
	ov     settings.Overrides
	putErr error
}

func (m *memStore) Get(context.Context) (settings.Overrides, error) { return m.ov.Clone(), nil }
func (m *memStore) Put(_ context.Context, ov settings.Overrides) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.ov = ov.Clone()
	return nil
}
func (m *memStore) Clear(context.Context) error { m.ov = settings.Overrides{}; return nil }

type fixture struct {
	store  *memStore
	svc    *serverconfig.Service
	policy *pipeline.Holder
	h      http.Handler
}

func newFixture(t *testing.T, opts api.Options) *fixture {
	t.Helper()
	store := &memStore{}
	svc := serverconfig.New(store,
		serverconfig.CounterFunc(func(context.Context) (int64, error) { return 1, nil }),
		serverconfig.WithLogger(zap.NewNop().Sugar()),
		serverconfig.WithVersion("1.0.0"))
	policy := pipeline.NewHolder(svc.Custom())
	svc.OnChange(policy.Apply)
	require.NoError(t, svc.Load(context.Background()))
	if opts.AdminToken == "" {
		opts.AdminToken = token
	}
	opts.Pipeline = policy
	return &fixture{store: store, svc: svc, policy: policy, h: api.New(svc, opts)}
}

func (f *fixture) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "192.0.2.10:4321"
	if admin {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPublicConfig(t *testing.T) {
	f := newFixture(t, api.Options{})

	rec := f.do(t, http.MethodGet, "/api/v1/config", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	view := decode[serverconfig.ServerConfigView](t, rec)
	require.Equal(t, "PeerTube", view.Instance.Name)
	require.Equal(t, "1.0.0", view.ServerVersion)
	require.True(t, view.Signup.Allowed)

	about := decode[serverconfig.AboutView](t, f.do(t, http.MethodGet, "/api/v1/config/about", nil, false))
	require.Equal(t, "No terms for now.", about.Instance.Terms)
}

func TestCustomRequiresToken(t *testing.T) {
	f := newFixture(t, api.Options{})
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := f.do(t, m, "/api/v1/config/custom", nil, false)
		require.Equal(t, http.StatusUnauthorized, rec.Code, m)
	}
}

func TestUpdateGetDeleteRoundTrip(t *testing.T) {
	f := newFixture(t, api.Options{})

	rec := f.do(t, http.MethodPut, "/api/v1/config/custom", settingstest.FullUpdate(), true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, settingstest.FullUpdateConfig(), decode[settings.CustomConfig](t, rec))

	rec = f.do(t, http.MethodGet, "/api/v1/config/custom", nil, true)
	require.Equal(t, settingstest.FullUpdateConfig(), decode[settings.CustomConfig](t, rec))

	rec = f.do(t, http.MethodGet, "/api/v1/config/custom/instance.defaultNSFWPolicy", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "blur", decode[string](t, rec))

	rec = f.do(t, http.MethodGet, "/api/v1/config/custom/transcoding.resolutions.1080p", nil, true)
	require.Equal(t, false, decode[bool](t, rec))

	view := decode[serverconfig.ServerConfigView](t, f.do(t, http.MethodGet, "/api/v1/config", nil, false))
	require.False(t, view.Signup.Allowed)
	require.Contains(t, view.Video.File.Extensions, ".mkv")

	rec = f.do(t, http.MethodDelete, "/api/v1/config/custom", nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/v1/config/custom", nil, true)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/config/custom", nil, true)
	require.Equal(t, settings.Defaults(), decode[settings.CustomConfig](t, rec))
}

func TestUpdateRejectsInvalid(t *testing.T) {
	f := newFixture(t, api.Options{})

	body := settingstest.FullUpdate()
	body.Instance.DefaultNSFWPolicy = settingstest.Ptr("hide")
	body.Admin.Email = settingstest.Ptr("not-an-email")

	rec := f.do(t, http.MethodPut, "/api/v1/config/custom", body, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var eb struct {
		Violations []settings.Violation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
	paths := []string{}
	for _, v := range eb.Violations {
		paths = append(paths, v.Path)
	}
	require.ElementsMatch(t, []string{"instance.defaultNSFWPolicy", "admin.email"}, paths)
	require.Equal(t, settings.Defaults(), f.svc.Custom())
}

func TestUpdateRejectsMalformedJSON(t *testing.T) {
	f := newFixture(t, api.Options{})

	cases := map[string]string{
		"unknown key":   `{"instance":{"nickname":"x"}}`,
		"wrong type":    `{"signup":{"limit":"five"}}`,
		"not json":      `{"instance":`,
		"empty":         ``,
		"trailing data": `{} {}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPut, "/api/v1/config/custom", body, true)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			require.Contains(t, rec.Body.String(), `"violations"`)
		})
	}
}

func TestLeafNotFound(t *testing.T) {
	f := newFixture(t, api.Options{})
	for _, p := range []string{"instance.nickname", "instance", "nope"} {
		rec := f.do(t, http.MethodGet, "/api/v1/config/custom/"+p, nil, true)
		require.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}

func TestPersistenceFailureIs500(t *testing.T) {
	f := newFixture(t, api.Options{})
	f.store.putErr = &overrides.PersistenceError{Op: "put", Err: errors.New("disk full")}

	rec := f.do(t, http.MethodPut, "/api/v1/config/custom", settingstest.FullUpdate(), true)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "disk full")
	require.Equal(t, settings.Defaults(), f.svc.Custom())
}

func TestWriteRateLimit(t *testing.T) {
	f := newFixture(t, api.Options{WriteRateLimit: 2})

	codes := []int{}
	for i := 0; i < 3; i++ {
		codes = append(codes, f.do(t, http.MethodDelete, "/api/v1/config/custom", nil, true).Code)
	}
	require.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	// Reads are not limited.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/config/custom", nil, true).Code)
}

func TestHealthAndPage(t *testing.T) {
	page := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("shell")) })
	healthy := true
	f := newFixture(t, api.Options{
		Page: page,
		Health: func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("db gone")
		},
	})

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/healthz", nil, false).Code)
	healthy = false
	require.Equal(t, http.StatusServiceUnavailable, f.do(t, http.MethodGet, "/healthz", nil, false).Code)

	rec := f.do(t, http.MethodGet, "/videos/trending", nil, false)
	require.Equal(t, "shell", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "config_generation"))
}

func TestPipelinePolicyFollowsUpdates(t *testing.T) {
	f := newFixture(t, api.Options{})

	type view struct {
		Policy  pipeline.Policy `json:"policy"`
		Applied uint64          `json:"applied"`
		Accepts *bool           `json:"accepts"`
	}

	require.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/api/v1/config/pipeline", nil, false).Code)

	got := decode[view](t, f.do(t, http.MethodGet, "/api/v1/config/pipeline?ext=.mkv", nil, true))
	require.Equal(t, uint64(1), got.Applied)
	require.False(t, got.Policy.TranscodingEnabled)
	require.NotNil(t, got.Accepts)
	require.False(t, *got.Accepts)

	rec := f.do(t, http.MethodPut, "/api/v1/config/custom", settingstest.FullUpdate(), true)
	require.Equal(t, http.StatusOK, rec.Code)

	got = decode[view](t, f.do(t, http.MethodGet, "/api/v1/config/pipeline?ext=.MKV", nil, true))
	require.Equal(t, uint64(2), got.Applied)
	require.True(t, got.Policy.TranscodingEnabled)
	require.Equal(t, 1, got.Policy.Threads)
	require.Equal(t, []int{360, 480}, got.Policy.Resolutions)
	require.True(t, *got.Accepts)

	got = decode[view](t, f.do(t, http.MethodGet, "/api/v1/config/pipeline", nil, true))
	require.Nil(t, got.Accepts)
}
