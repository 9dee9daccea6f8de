// internal/auth/context.go
//
// Request-scoped identity of an authenticated administrator.
//
// Usage
// -----
//
//	ctx = auth.WithAdmin(ctx, "token:3f9a1c2e")
//	who, ok := auth.Admin(ctx) // "token:3f9a1c2e", true
//
// Notes
// -----
//   - The subject is a display label for logs, never a secret.
//   - Oxford commas, two spaces after periods.
package auth

import "context"

// adminKey is unexported to avoid context-key collisions.
type adminKey struct{}

// WithAdmin returns a context carrying the admin subject.
func WithAdmin(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminKey{}, subject)
}

// Admin extracts the subject.  It returns ("", false) on anonymous
// requests.
func Admin(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(adminKey{}).(string)
	return s, ok
}
