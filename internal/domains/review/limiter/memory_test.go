package limiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*MemoryLimiter, *time.Time) {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	lim := NewMemoryLimiter(DefaultConfig())
	lim.now = func() time.Time { return now }
	return lim, &now
}

func testKey() Key {
	return Key{ReviewID: uuid.New(), Origin: "203.0.113.7"}
}

func TestMemoryLimiterFreshKeyHasFullBudget(t *testing.T) {
	lim, _ := newTestLimiter(t)

	status, err := lim.Check(context.Background(), testKey())
	require.NoError(t, err)
	assert.False(t, status.Blocked)
	assert.Equal(t, 3, status.AttemptsLeft)
}

func TestMemoryLimiterCountsDownThenBlocks(t *testing.T) {
	lim, now := newTestLimiter(t)
	key := testKey()
	ctx := context.Background()

	status, err := lim.Fail(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, status.AttemptsLeft)
	assert.False(t, status.Blocked)

	status, err = lim.Fail(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, status.AttemptsLeft)
	assert.False(t, status.Blocked)

	// Third failure exhausts the budget and starts the block window.
	status, err = lim.Fail(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 0, status.AttemptsLeft)
	assert.True(t, status.Blocked)
	assert.Equal(t, now.Add(5*time.Minute), status.BlockedUntil)

	status, err = lim.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, status.Blocked)
	assert.Equal(t, 0, status.AttemptsLeft)
}

func TestMemoryLimiterBlockExpires(t *testing.T) {
	lim, now := newTestLimiter(t)
	key := testKey()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := lim.Fail(ctx, key)
		require.NoError(t, err)
	}

	status, err := lim.Check(ctx, key)
	require.NoError(t, err)
	require.True(t, status.Blocked)

	// One second past the window the block has lifted, but the count
	// stays pinned: the next failure re-blocks immediately.
	*now = now.Add(5*time.Minute + time.Second)

	status, err = lim.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, status.Blocked)

	status, err = lim.Fail(ctx, key)
	require.NoError(t, err)
	assert.True(t, status.Blocked)
	assert.Equal(t, now.Add(5*time.Minute), status.BlockedUntil)
}

func TestMemoryLimiterClearResetsBudget(t *testing.T) {
	lim, _ := newTestLimiter(t)
	key := testKey()
	ctx := context.Background()

	_, err := lim.Fail(ctx, key)
	require.NoError(t, err)
	_, err = lim.Fail(ctx, key)
	require.NoError(t, err)

	require.NoError(t, lim.Clear(ctx, key))

	status, err := lim.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, status.Blocked)
	assert.Equal(t, 3, status.AttemptsLeft)
}

func TestMemoryLimiterKeysAreIsolated(t *testing.T) {
	lim, _ := newTestLimiter(t)
	ctx := context.Background()

	reviewID := uuid.New()
	keyA := Key{ReviewID: reviewID, Origin: "203.0.113.7"}
	keyB := Key{ReviewID: reviewID, Origin: "198.51.100.9"}

	for i := 0; i < 3; i++ {
		_, err := lim.Fail(ctx, keyA)
		require.NoError(t, err)
	}

	statusA, err := lim.Check(ctx, keyA)
	require.NoError(t, err)
	assert.True(t, statusA.Blocked)

	// Same review from a different origin keeps its own budget.
	statusB, err := lim.Check(ctx, keyB)
	require.NoError(t, err)
	assert.False(t, statusB.Blocked)
	assert.Equal(t, 3, statusB.AttemptsLeft)
}

func TestMemoryLimiterConcurrentFailures(t *testing.T) {
	lim := NewMemoryLimiter(Config{MaxAttempts: 100, BlockDuration: 5 * time.Minute})
	key := testKey()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lim.Fail(ctx, key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	status, err := lim.Check(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 50, status.Count)
}

func TestMemoryLimiterPruneDropsExpiredBlocks(t *testing.T) {
	lim, now := newTestLimiter(t)
	key := testKey()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := lim.Fail(ctx, key)
		require.NoError(t, err)
	}

	// A full window past expiry the record is reclaimable.
	*now = now.Add(10*time.Minute + time.Second)
	lim.prune()

	status, err := lim.Check(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, status.AttemptsLeft)
}

func TestKeyString(t *testing.T) {
	id := uuid.MustParse("4dc04ba7-0d52-4f43-8ecb-20d3de63f918")
	key := Key{ReviewID: id, Origin: "10.0.0.1"}
	assert.Equal(t, "4dc04ba7-0d52-4f43-8ecb-20d3de63f918:10.0.0.1", key.String())
}
