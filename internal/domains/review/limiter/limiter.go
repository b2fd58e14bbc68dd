// Package limiter implements the password-verification attempt limiter:
// a per-(review, origin) state machine that throttles repeated failed
// password checks.
//
// States per key: Clear (no record) -> Counting (1..N-1 failures) ->
// Blocked (>= max failures, blocked-until timestamp set). Any success
// resets the key to Clear. The limiter is an injected component so the
// backing store can be swapped (in-memory for a single instance, redis
// for multi-instance deployments) without changing call sites.
package limiter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Key identifies one counter: a review and the origin attempting to
// verify its password.
type Key struct {
	ReviewID uuid.UUID
	Origin   string
}

func (k Key) String() string {
	return k.ReviewID.String() + ":" + k.Origin
}

// Status is a snapshot of a key's state after a gate check or a recorded
// failure.
type Status struct {
	Count        int
	AttemptsLeft int
	Blocked      bool
	BlockedUntil time.Time // zero unless Blocked
}

// Config bounds the attempt budget.
type Config struct {
	MaxAttempts   int
	BlockDuration time.Duration
}

// DefaultConfig matches the product rule: 3 failures, 5 minute block.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   3,
		BlockDuration: 5 * time.Minute,
	}
}

// Limiter is the verification attempt limiter contract.
type Limiter interface {
	// Check gates a verification attempt. It never mutates state: a
	// Blocked status means the caller must short-circuit without
	// attempting verification.
	Check(ctx context.Context, key Key) (*Status, error)

	// Fail records a failed verification and returns the new status.
	// Reaching the attempt budget transitions the key to Blocked with
	// the count pinned at the maximum.
	Fail(ctx context.Context, key Key) (*Status, error)

	// Clear resets the key after a successful verification.
	Clear(ctx context.Context, key Key) error
}
