package stub

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/requestcontext"
)

const (
	defaultLockoutAttempts = 5
	defaultLockoutWindow   = 15 * time.Minute
)

type lockRecord struct {
	failures     int
	firstFailure time.Time
	lockedUntil  time.Time
}

// Lockout counts failed logins per prefix and mobile number. The window
// opens at the first failure; reaching the attempt limit before it closes
// locks the account for the window duration.
type Lockout struct {
	mu       sync.Mutex
	attempts int
	window   time.Duration
	records  map[string]*lockRecord
}

func NewLockout(attempts int, window time.Duration) *Lockout {
	if attempts <= 0 {
		attempts = defaultLockoutAttempts
	}
	if window <= 0 {
		window = defaultLockoutWindow
	}
	return &Lockout{
		attempts: attempts,
		window:   window,
		records:  make(map[string]*lockRecord),
	}
}

func lockoutKey(prefix, mobile string) string {
	return prefix + ":" + mobile
}

// Check returns a rate_limited error while key is locked.
func (l *Lockout) Check(ctx context.Context, key string) error {
	now := requestcontext.Now(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok {
		return nil
	}
	if now.Before(rec.lockedUntil) {
		minutes := int(math.Ceil(rec.lockedUntil.Sub(now).Minutes()))
		return dErrors.New(dErrors.CodeRateLimited,
			fmt.Sprintf("Too many failed attempts. Try again in %d minute(s)", minutes))
	}
	if now.Sub(rec.firstFailure) >= l.window {
		delete(l.records, key)
	}
	return nil
}

// RecordFailure counts one failed attempt and reports whether it locked key.
func (l *Lockout) RecordFailure(ctx context.Context, key string) bool {
	now := requestcontext.Now(ctx)
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok || now.Sub(rec.firstFailure) >= l.window {
		rec = &lockRecord{firstFailure: now}
		l.records[key] = rec
	}
	rec.failures++
	if rec.failures >= l.attempts {
		rec.lockedUntil = now.Add(l.window)
		rec.failures = 0
		return true
	}
	return false
}

// Clear forgets failures for key after a successful login.
func (l *Lockout) Clear(key string) {
	l.mu.Lock()
	delete(l.records, key)
	l.mu.Unlock()
}
