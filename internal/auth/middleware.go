// internal/auth/middleware.go
//
// Chi middleware guarding the administrator endpoints.

package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RequireToken admits requests carrying `Authorization: Bearer <token>`.
// Missing credentials yield 401, a wrong token 403.
func RequireToken(token string) func(http.Handler) http.Handler {
	if token == "" {
		panic("auth.RequireToken: empty admin token")
	}
	want := sha256.Sum256([]byte(token))
	subject := "token:" + hex.EncodeToString(want[:4])

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearer(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="siteconf"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			sum := sha256.Sum256([]byte(got))
			if subtle.ConstantTimeCompare(sum[:], want[:]) != 1 {
				zap.S().Warnw("admin token rejected", "remote", r.RemoteAddr, "path", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), subject)))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
