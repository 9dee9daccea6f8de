package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequireToken(t *testing.T) {
	var subject string
	h := RequireToken("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = Admin(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusForbidden},
		{"ok", "Bearer s3cret", http.StatusOK},
		{"ok lowercase scheme", "bearer s3cret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subject = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK && !strings.HasPrefix(subject, "token:") {
				t.Fatalf("subject not attached: %q", subject)
			}
		})
	}
}

func TestAdminAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := Admin(req.Context()); ok {
		t.Fatal("anonymous request reported as admin")
	}
}
