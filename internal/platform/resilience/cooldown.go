package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCooldownActive = errors.New("cooldown active")

// Cooldown lets the first call for a key through and rejects the rest until
// the window has passed. Rejected calls do not extend the window.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
	now    func() time.Time
}

func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window: window,
		last:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Allow records a trigger for key. It returns ErrCooldownActive with the
// remaining wait when key fired less than one window ago.
func (c *Cooldown) Allow(key string) (time.Duration, error) {
	if c == nil || c.window <= 0 {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if at, ok := c.last[key]; ok {
		if elapsed := now.Sub(at); elapsed < c.window {
			return c.window - elapsed, ErrCooldownActive
		}
	}
	c.last[key] = now
	c.prune(now)

	return 0, nil
}

// Reset forgets key so its next trigger passes.
func (c *Cooldown) Reset(key string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	delete(c.last, key)
	c.mu.Unlock()
}

func (c *Cooldown) prune(now time.Time) {
	if len(c.last) < 1024 {
		return
	}
	for key, at := range c.last {
		if now.Sub(at) >= c.window {
			delete(c.last, key)
		}
	}
}
