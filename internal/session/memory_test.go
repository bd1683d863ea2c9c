package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.False(t, sess.Fulfilled)
	assert.False(t, sess.NotReady)
	assert.WithinDuration(t, time.Now(), sess.CreatedAt, time.Second)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = store.Get(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	got.Fulfilled = true
	got.ResolvedCode = "tampered"

	again, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, again.Fulfilled)
	assert.Empty(t, again.ResolvedCode)
}

func TestMemoryStore_MarkFulfilled(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	winner, err := store.MarkFulfilled(ctx, sess.ID, "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", winner)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Fulfilled)
	assert.Equal(t, "12345", got.ResolvedCode)

	// first write wins: a second scan cannot overwrite the resolution
	winner, err = store.MarkFulfilled(ctx, sess.ID, "54321")
	require.NoError(t, err)
	assert.Equal(t, "12345", winner)

	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345", got.ResolvedCode)

	_, err = store.MarkFulfilled(ctx, "no-such-id", "12345")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_MarkNotReady(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.MarkNotReady(ctx, sess.ID))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.NotReady)
	assert.False(t, got.Fulfilled)

	// fulfillment clears the notReady flag
	_, err = store.MarkFulfilled(ctx, sess.ID, "777")
	require.NoError(t, err)

	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Fulfilled)
	assert.False(t, got.NotReady)

	// and notReady cannot undo a fulfillment
	require.NoError(t, store.MarkNotReady(ctx, sess.ID))
	got, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Fulfilled)
	assert.False(t, got.NotReady)

	assert.ErrorIs(t, store.MarkNotReady(ctx, "no-such-id"), ErrNotFound)
}

func TestMemoryStore_SetSelection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	sel := json.RawMessage(`{"design":"gold","currency":"AMD"}`)
	require.NoError(t, store.SetSelection(ctx, sess.ID, sel))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(sel), string(got.Selection))

	// selection is independent of fulfillment
	assert.False(t, got.Fulfilled)

	assert.ErrorIs(t, store.SetSelection(ctx, "no-such-id", sel), ErrNotFound)
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	old, err := store.Create(ctx)
	require.NoError(t, err)

	// a generous maxAge keeps everything
	removed, err := store.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)

	// a negative maxAge puts the cutoff in the future: everything goes
	removed, err = store.Sweep(ctx, -time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Zero(t, store.Len())

	// swept sessions stay gone
	_, err = store.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.MarkFulfilled(ctx, old.ID, "12345")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.SetSelection(ctx, old.ID, json.RawMessage(`{}`)), ErrNotFound)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const workers = 50

	var wg sync.WaitGroup
	ids := make([]string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := store.Create(ctx)
			if assert.NoError(t, err) {
				ids[i] = sess.ID
				_, err := store.MarkFulfilled(ctx, sess.ID, sess.ID[:8])
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, workers, store.Len())

	// every session holds its own resolution, none were crossed
	for _, id := range ids {
		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id[:8], got.ResolvedCode)
	}
}
