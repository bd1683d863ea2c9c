package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweeper_RemovesExpiredSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewMemoryStore()
	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx)
		require.NoError(t, err)
	}

	sweeper := NewSweeper(store, 10*time.Millisecond, time.Millisecond)
	go sweeper.Run(ctx)

	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSweeper_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	sweeper := NewSweeper(NewMemoryStore(), 5*time.Millisecond, time.Hour)

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

// sweepPanicStore panics on Sweep to prove the schedule survives it.
type sweepPanicStore struct {
	*MemoryStore
	calls chan struct{}
}

func (s *sweepPanicStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	s.calls <- struct{}{}
	panic("boom")
}

func TestSweeper_SurvivesPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &sweepPanicStore{
		MemoryStore: NewMemoryStore(),
		calls:       make(chan struct{}, 16),
	}

	sweeper := NewSweeper(store, 5*time.Millisecond, time.Hour)
	go sweeper.Run(ctx)

	// a panicking sweep must not end the schedule
	for i := 0; i < 3; i++ {
		select {
		case <-store.calls:
		case <-time.After(time.Second):
			t.Fatalf("sweep %d never ran", i)
		}
	}
}
