package world

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiram-madelaine/jukebox/internal/logger"
)

func snapshot(t *testing.T, s *Store) World {
	t.Helper()
	w, err := s.Apply(func(w World) (World, error) { return w, nil })
	require.NoError(t, err)
	return w
}

func TestNewStoreHoldsFreshWorld(t *testing.T) {
	s := NewStore(nil)
	require.True(t, snapshot(t, s).Alive())
}

func TestApplyReplacesStoredWorld(t *testing.T) {
	s := NewStore(nil)

	got, err := s.Apply(func(w World) (World, error) {
		return w.With("count", 5), nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, got["count"])
	require.Equal(t, 5, snapshot(t, s)["count"])
}

func TestApplyKeepsWorldOnTransformError(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Apply(func(w World) (World, error) {
		return w.With("seeded", true), nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	got, err := s.Apply(func(World) (World, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, true, got["seeded"])
	require.Equal(t, true, snapshot(t, s)["seeded"])
}

func TestApplyStoresAndWarnsOnDroppedLiveness(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	s := NewStore(log)
	got, err := s.Apply(func(World) (World, error) {
		// Rebuilt from scratch, marker dropped.
		return World{"count": 1}, nil
	})
	require.NoError(t, err)
	require.False(t, got.Alive())
	require.Contains(t, buf.String(), "liveness")

	// Non-fatal: the malformed world is still the stored one.
	require.Equal(t, 1, snapshot(t, s)["count"])
}

func TestResetDiscardsAccumulatedState(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Apply(func(w World) (World, error) {
		return w.With("count", 5), nil
	})
	require.NoError(t, err)

	s.Reset()

	w := snapshot(t, s)
	require.True(t, w.Alive())
	require.NotContains(t, w, "count")
}

func TestRepeatedResetIsIdempotent(t *testing.T) {
	s := NewStore(nil)
	s.Reset()
	s.Reset()

	w := snapshot(t, s)
	require.Equal(t, Fresh(), w)
}

func TestApplyIsSafeUnderConcurrentUse(t *testing.T) {
	s := NewStore(nil)
	const workers = 16
	const rounds = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				_, _ = s.Apply(func(w World) (World, error) {
					count, _ := w["count"].(int)
					return w.With("count", count+1), nil
				})
			}
		}()
	}
	wg.Wait()

	require.Equal(t, workers*rounds, snapshot(t, s)["count"])
}
