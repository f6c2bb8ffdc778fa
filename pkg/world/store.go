package world

import (
	"sync"

	"github.com/hiram-madelaine/jukebox/internal/logger"
)

// Transform produces the replacement world from the current one. When it
// returns an error the store keeps the current world.
type Transform func(World) (World, error)

// Store is the single owner of the scenario world. It exposes only Reset
// and Apply, never raw reads or writes, so every update goes through the
// transform contract.
//
// The execution model runs steps and hooks strictly one after another, but
// the host engine's threading is not part of this contract, so the store
// guards the cell with a mutex anyway.
type Store struct {
	mu      sync.Mutex
	log     *logger.Logger
	current World
}

// NewStore returns a store holding a fresh, live world. The logger may be
// nil.
func NewStore(log *logger.Logger) *Store {
	return &Store{log: log, current: Fresh()}
}

// Reset replaces the stored world with a fresh one. Called at scenario
// setup and teardown so no state leaks across scenarios.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Fresh()
}

// Apply invokes transform with the current world and atomically replaces
// the stored world with the result. On transform error the stored world is
// left unchanged and the previous world is returned alongside the error.
//
// A result missing the liveness marker is still stored, but logged: the
// body most likely discarded its argument and rebuilt the world by hand.
func (s *Store) Apply(transform Transform) (World, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := transform(s.current)
	if err != nil {
		return s.current, err
	}

	if !next.Alive() {
		s.log.Warn("world lost its liveness marker; body likely rebuilt the context instead of deriving it",
			"step", next[KeyStep])
	}

	s.current = next
	return next, nil
}
