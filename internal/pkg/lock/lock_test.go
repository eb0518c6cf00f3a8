package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialTokens() func() string {
	var n int32
	return func() string {
		return "tok-" + string(rune('0'+atomic.AddInt32(&n, 1)))
	}
}

func TestSubmissionKey(t *testing.T) {
	assert.Equal(t, "submit:u-1:form-9", SubmissionKey("u-1", "form-9"))
}

func TestRedisGuard_AcquireRelease(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer mock.ClearExpect()
	g := NewRedisGuard(db, 30*time.Second)
	g.newToken = sequentialTokens()
	ctx := context.Background()
	key := SubmissionKey("u-1", "f-1")

	mock.ExpectSetNX(key, "tok-1", 30*time.Second).SetVal(true)
	mock.ExpectSetNX(key, "tok-2", 30*time.Second).SetVal(false)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{key}, "tok-1").SetVal(int64(1))

	token, err := g.Acquire(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = g.Acquire(ctx, key)
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, g.Release(ctx, key, token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGuard_StaleReleaseKeepsNewHolder(t *testing.T) {
	db, mock := redismock.NewClientMock()
	g := NewRedisGuard(db, time.Second)
	g.newToken = sequentialTokens()
	ctx := context.Background()

	// tok-1 expired and tok-2 took the key; the script matches nothing and deletes nothing
	mock.ExpectSetNX("k", "tok-1", time.Second).SetVal(true)
	mock.ExpectSetNX("k", "tok-2", time.Second).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"k"}, "tok-1").SetVal(int64(0))
	mock.ExpectSetNX("k", "tok-3", time.Second).SetVal(false)

	stale, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	_, err = g.Acquire(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, g.Release(ctx, "k", stale))
	_, err = g.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGuard_BackendError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	g := NewRedisGuard(db, time.Second)
	g.newToken = func() string { return "tok" }

	mock.ExpectSetNX("k", "tok", time.Second).SetErr(errors.New("connection refused"))

	_, err := g.Acquire(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHeld)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMemoryGuard_ExclusiveUntilRelease(t *testing.T) {
	g := NewMemoryGuard(time.Minute)
	ctx := context.Background()

	token, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	_, err = g.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrHeld)
	_, err = g.Acquire(ctx, "other")
	require.NoError(t, err)

	require.NoError(t, g.Release(ctx, "k", token))
	_, err = g.Acquire(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryGuard_Expires(t *testing.T) {
	g := NewMemoryGuard(time.Second)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	now = now.Add(2 * time.Second)
	_, err = g.Acquire(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryGuard_StaleReleaseKeepsNewHolder(t *testing.T) {
	g := NewMemoryGuard(time.Second)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return now }
	ctx := context.Background()

	stale, err := g.Acquire(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	current, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	require.NotEqual(t, stale, current)

	// The first holder settles late; its release must not free the key
	require.NoError(t, g.Release(ctx, "k", stale))
	_, err = g.Acquire(ctx, "k")
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, g.Release(ctx, "k", current))
	_, err = g.Acquire(ctx, "k")
	assert.NoError(t, err)
}

func TestMemoryGuard_ConcurrentAcquireHasSingleWinner(t *testing.T) {
	g := NewMemoryGuard(time.Minute)
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Acquire(context.Background(), "k"); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}
