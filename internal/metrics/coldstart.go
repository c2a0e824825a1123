package metrics

import "sync/atomic"

// ColdStartTracker remembers whether the process instance has served an
// invocation yet. It is created once by main and shared by every request.
type ColdStartTracker struct {
	warm atomic.Bool
}

// Observe marks the instance as warm and reports whether this call was the
// first one, i.e. a cold start.
func (t *ColdStartTracker) Observe() bool {
	return !t.warm.Swap(true)
}

// Warm reports whether Observe has been called at least once.
func (t *ColdStartTracker) Warm() bool {
	return t.warm.Load()
}
