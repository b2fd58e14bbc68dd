package limiter

import (
	"context"
	"sync"
	"time"
)

// record is the process-local state for one key.
type record struct {
	count        int
	blockedUntil time.Time // zero = not blocked
}

// MemoryLimiter keeps counters in a lock-guarded map. State lives only
// for the process lifetime: a restart resets every counter, and multiple
// instances do not share state. Accepted for single-instance deployments;
// use RedisLimiter otherwise.
type MemoryLimiter struct {
	mu      sync.Mutex
	records map[string]*record
	config  Config

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(config Config) *MemoryLimiter {
	return &MemoryLimiter{
		records: make(map[string]*record),
		config:  config,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// StartJanitor prunes records whose block window has long passed, so the
// map stays bounded on a long-lived process. Stop with Close.
func (l *MemoryLimiter) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.prune()
			case <-l.done:
				return
			}
		}
	}()
}

// Close stops the janitor.
func (l *MemoryLimiter) Close() {
	l.once.Do(func() {
		close(l.done)
	})
}

func (l *MemoryLimiter) prune() {
	now := l.now()
	cutoff := now.Add(-l.config.BlockDuration)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, rec := range l.records {
		// A blocked record is stale once the block expired a full
		// window ago; a counting record never expires on its own and
		// is only reclaimed on success, matching the state machine.
		if !rec.blockedUntil.IsZero() && rec.blockedUntil.Before(cutoff) {
			delete(l.records, key)
		}
	}
}

func (l *MemoryLimiter) Check(_ context.Context, key Key) (*Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key.String()]
	if !ok {
		return &Status{AttemptsLeft: l.config.MaxAttempts}, nil
	}

	return l.statusLocked(rec), nil
}

func (l *MemoryLimiter) Fail(_ context.Context, key Key) (*Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key.String()]
	if !ok {
		rec = &record{}
		l.records[key.String()] = rec
	}

	rec.count++
	if rec.count >= l.config.MaxAttempts {
		rec.count = l.config.MaxAttempts
		rec.blockedUntil = l.now().Add(l.config.BlockDuration)
	}

	return l.statusLocked(rec), nil
}

func (l *MemoryLimiter) Clear(_ context.Context, key Key) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.records, key.String())
	return nil
}

// statusLocked builds a Status snapshot. Caller holds the mutex.
func (l *MemoryLimiter) statusLocked(rec *record) *Status {
	attemptsLeft := l.config.MaxAttempts - rec.count
	if attemptsLeft < 0 {
		attemptsLeft = 0
	}

	status := &Status{
		Count:        rec.count,
		AttemptsLeft: attemptsLeft,
	}

	if !rec.blockedUntil.IsZero() && rec.blockedUntil.After(l.now()) {
		status.Blocked = true
		status.BlockedUntil = rec.blockedUntil
		status.AttemptsLeft = 0
	}

	return status
}
