// internal/server/timeouts.go
//
// HTTP server helper with explicit timeouts.
//
//   - ReadTimeout   – abort slow-loris headers
//   - WriteTimeout  – cap total response time
//   - IdleTimeout   – close keep-alives on idle clients
//
// Values come from the `http` section of the process configuration; zero
// fields fall back to 10 s, 15 s, and 60 s.
package server

import (
	"net/http"
	"time"
)

// Timeouts mirrors config.HTTP so this package stays import-free.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// New constructs an *http.Server.
func New(addr string, handler http.Handler, t Timeouts) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       or(t.Read, 10*time.Second),
		ReadHeaderTimeout: or(t.Read, 10*time.Second),
		WriteTimeout:      or(t.Write, 15*time.Second),
		IdleTimeout:       or(t.Idle, 60*time.Second),
	}
}

func or(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
