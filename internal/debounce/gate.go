package debounce

import "time"

// Gate tracks the most recent key and reports it once it has stayed unchanged
// for the configured window. It is not safe for concurrent use; it is meant to
// be owned by a single event loop that polls it.
type Gate[K comparable] struct {
	window  time.Duration
	key     K
	has     bool
	changed time.Time
	pending bool
}

func NewGate[K comparable](window time.Duration) *Gate[K] {
	return &Gate[K]{window: window}
}

// Observe records key as current. It returns true when key differs from the
// previous one, in which case the quiet window restarts at now.
func (g *Gate[K]) Observe(key K, now time.Time) bool {
	if g.has && g.key == key {
		return false
	}
	g.key = key
	g.has = true
	g.changed = now
	g.pending = true
	return true
}

// Clear forgets the current key. It returns true if there was one.
func (g *Gate[K]) Clear() bool {
	had := g.has
	var zero K
	g.key = zero
	g.has = false
	g.pending = false
	return had
}

// Due returns the current key the first time it is polled at or after the end
// of its quiet window. Later polls return false until the key changes again.
func (g *Gate[K]) Due(now time.Time) (K, bool) {
	var zero K
	if !g.pending || now.Sub(g.changed) < g.window {
		return zero, false
	}
	g.pending = false
	return g.key, true
}

// Pending reports whether a key is waiting for its window to elapse.
func (g *Gate[K]) Pending() bool {
	return g.pending
}
