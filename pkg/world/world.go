// Package world holds the shared scenario context: a single mutable cell
// threaded through every step and hook invocation. Bodies never mutate the
// context in place; each receives the current world and returns its
// replacement.
package world

// Reserved keys. Step and hook bodies may read them but should not set them
// directly; the store and the execution pipeline own their values.
const (
	// KeyLive marks a world as freshly initialized by the store. A body
	// that returns a world without this marker most likely rebuilt the map
	// from scratch instead of deriving it from its argument.
	KeyLive = "jukebox/world?"

	// KeyErr holds the failure captured from the current step body, if any.
	KeyErr = "jukebox/error"

	// KeyStep holds the pattern of the step currently executing.
	KeyStep = "jukebox/step"

	// KeyStepLocation holds the source location of the step currently
	// executing, as "file:line".
	KeyStepLocation = "jukebox/step-location"
)

// World is the accumulated scenario state: an opaque mapping from keys to
// values (HTTP responses, fixture handles, counters). Values put into a
// World should be treated as immutable.
type World map[string]any

// Fresh returns a new, live world.
func Fresh() World {
	return World{KeyLive: true}
}

// Alive reports whether the world still carries the liveness marker set by
// Fresh.
func (w World) Alive() bool {
	live, ok := w[KeyLive].(bool)
	return ok && live
}

// With returns a copy of the world with key set to value. The receiver is
// left unchanged.
func (w World) With(key string, value any) World {
	next := make(World, len(w)+1)
	for k, v := range w {
		next[k] = v
	}
	next[key] = value
	return next
}

// Without returns a copy of the world with key removed. The receiver is
// left unchanged.
func (w World) Without(key string) World {
	next := make(World, len(w))
	for k, v := range w {
		if k == key {
			continue
		}
		next[k] = v
	}
	return next
}

// Err returns the step failure recorded in the world, or nil.
func (w World) Err() error {
	err, _ := w[KeyErr].(error)
	return err
}
