package late

import "sync"

// Guarded is the internally synchronized variant of Static for callers who
// would rather pay for a lock than carry Static's external happens-before
// obligation. The state machine and panic taxonomy are identical; every
// operation simply runs under an internal RWMutex, which also means
// double-assign detection becomes a checked state read under that lock.
//
// Because handing out an interior pointer would bypass the lock, Guarded has
// no Get. Read through Value, which copies under the read lock, and mutate
// through Use, which runs a function with exclusive access to the slot. The
// zero value is an empty Guarded ready for use.
type Guarded[T any] struct {
	mu  sync.RWMutex
	val T
	set bool
}

// NewGuarded returns a pointer to an empty Guarded.
func NewGuarded[T any]() *Guarded[T] {
	return &Guarded[T]{}
}

// Assign stores val into the slot, panicking with ErrSecondAssignment if a
// value is already held. Concurrent assigners race on which one panics, not
// on memory.
func (g *Guarded[T]) Assign(val T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.set {
		panic(ErrSecondAssignment)
	}
	g.val = val
	g.set = true
}

// Clear empties the slot and re-arms it for a later Assign, panicking with
// ErrClearWithoutValue if no value is held.
func (g *Guarded[T]) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.set {
		panic(ErrClearWithoutValue)
	}
	var zero T
	g.val = zero
	g.set = false
}

// HasValue reports whether the slot currently holds a value.
func (g *Guarded[T]) HasValue() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.set
}

// Value returns a copy of the held value taken under the read lock. It
// panics with ErrNotAssigned while the slot is empty.
func (g *Guarded[T]) Value() T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.set {
		panic(ErrNotAssigned)
	}
	return g.val
}

// Use runs fn with exclusive access to the held value, permitting in-place
// mutation without exposing the interior pointer beyond the call. It panics
// with ErrNotAssigned while the slot is empty. A nil fn still performs the
// occupancy check.
func (g *Guarded[T]) Use(fn func(*T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.set {
		panic(ErrNotAssigned)
	}
	if fn != nil {
		fn(&g.val)
	}
}
