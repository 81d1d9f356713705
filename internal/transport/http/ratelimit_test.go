package http

import (
	"testing"
	"time"
)

func TestRateLimiterDisabled(t *testing.T) {
	rl := newRateLimiter(0)
	for i := 0; i < 1000; i++ {
		if !rl.allow() {
			t.Fatalf("disabled limiter rejected call %d", i)
		}
	}
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2)
	rl.now = func() time.Time { return now }

	if !rl.allow() || !rl.allow() {
		t.Fatal("first two calls should pass")
	}
	if rl.allow() {
		t.Fatal("third call in the window should be rejected")
	}

	now = now.Add(time.Minute)
	if !rl.allow() {
		t.Fatal("limiter should reset after the window")
	}
}
