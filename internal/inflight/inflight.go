// Package inflight prevents concurrent duplicate submissions of the same
// mutating action (a double-clicked claim button, two tabs racing a
// transfer). The pure model has no notion of request identity, so the guard
// lives here at the caller.
package inflight

import "sync"

type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// TryAcquire marks the action as in flight. It returns false while an
// earlier submission of the same key is still running.
func (g *Guard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return false
	}
	g.active[key] = struct{}{}
	return true
}

// Release clears the flag once the action's single response has arrived.
func (g *Guard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, key)
}
