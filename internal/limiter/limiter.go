// Package limiter tracks failed login attempts in a keyed TTL store
// passed in explicitly, so the state survives restarts (with Redis) and
// is shared across instances instead of living in a process-global map.
package limiter

import (
	"context"
	"strings"
	"time"

	"github.com/example/solara/internal/cache"
)

// LoginLimiter blocks an identifier after too many failed attempts
// within the window.
type LoginLimiter struct {
	store       cache.Cache
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter constructs a LoginLimiter over the given store.
func NewLoginLimiter(store cache.Cache, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		store:       store,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func (l *LoginLimiter) key(identifier string) string {
	return "login_attempts:" + strings.ToLower(identifier)
}

// Blocked reports whether the identifier has exhausted its attempts.
func (l *LoginLimiter) Blocked(ctx context.Context, identifier string) bool {
	value, err := l.store.Get(ctx, l.key(identifier))
	if err != nil {
		return false
	}
	return value == "blocked"
}

// RecordFailure counts a failed attempt and reports whether the
// identifier is now blocked.
func (l *LoginLimiter) RecordFailure(ctx context.Context, identifier string) (bool, error) {
	key := l.key(identifier)
	count, err := l.store.Incr(ctx, key+":count", l.window)
	if err != nil {
		return false, err
	}
	if count >= l.maxAttempts {
		if err := l.store.Set(ctx, key, "blocked", l.window); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// Reset clears the failure count after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, identifier string) {
	key := l.key(identifier)
	_ = l.store.Delete(ctx, key)
	_ = l.store.Delete(ctx, key+":count")
}
