package server

import (
	"net/http"
	"testing"
	"time"
)

func TestNewTimeouts(t *testing.T) {
	s := New(":0", http.NotFoundHandler(), Timeouts{Read: 3 * time.Second})
	if s.ReadTimeout != 3*time.Second || s.ReadHeaderTimeout != 3*time.Second {
		t.Fatalf("read timeout = %v / %v", s.ReadTimeout, s.ReadHeaderTimeout)
	}
	if s.WriteTimeout != 15*time.Second || s.IdleTimeout != 60*time.Second {
		t.Fatalf("defaults not applied: write=%v idle=%v", s.WriteTimeout, s.IdleTimeout)
	}
}
