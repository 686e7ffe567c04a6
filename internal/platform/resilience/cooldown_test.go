package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCooldown_LeadingEdge(t *testing.T) {
	c := NewCooldown(2 * time.Second)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, err := c.Allow("game:g1"); err != nil {
		t.Fatalf("expected first trigger to pass: %v", err)
	}

	now = now.Add(500 * time.Millisecond)
	wait, err := c.Allow("game:g1")
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("expected cooldown error, got %v", err)
	}
	if wait != 1500*time.Millisecond {
		t.Fatalf("wait = %s, want 1.5s", wait)
	}

	if _, err := c.Allow("game:g2"); err != nil {
		t.Fatalf("other keys must not share the window: %v", err)
	}

	now = now.Add(1500 * time.Millisecond)
	if _, err := c.Allow("game:g1"); err != nil {
		t.Fatalf("expected trigger after window to pass: %v", err)
	}
}

func TestCooldown_RejectedCallsDoNotExtendWindow(t *testing.T) {
	c := NewCooldown(time.Second)

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, _ = c.Allow("k")
	for i := 0; i < 5; i++ {
		now = now.Add(150 * time.Millisecond)
		if _, err := c.Allow("k"); !errors.Is(err, ErrCooldownActive) {
			t.Fatalf("expected rejection at step %d, got %v", i, err)
		}
	}

	now = now.Add(250 * time.Millisecond)
	if _, err := c.Allow("k"); err != nil {
		t.Fatalf("expected window measured from first trigger: %v", err)
	}
}

func TestCooldown_DisabledAndReset(t *testing.T) {
	disabled := NewCooldown(0)
	for i := 0; i < 3; i++ {
		if _, err := disabled.Allow("k"); err != nil {
			t.Fatalf("disabled cooldown rejected call: %v", err)
		}
	}

	c := NewCooldown(time.Hour)
	_, _ = c.Allow("k")
	c.Reset("k")
	if _, err := c.Allow("k"); err != nil {
		t.Fatalf("expected reset key to pass: %v", err)
	}
}
