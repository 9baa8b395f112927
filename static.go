package late

// Static is a fixed-size holder for a value of type T that is assigned at
// runtime and then behaves like an ordinary package-level variable. The zero
// value is an empty Static ready for use, so a plain var declaration is the
// whole construction step: the slot exists before main runs, its address is
// stable for the life of the process, and no constructor executes.
//
// Static performs no synchronization and never allocates. The correctness
// burden for cross-goroutine visibility sits entirely with the caller: Assign
// must happen before any access from another goroutine, established by
// assigning during single-threaded startup or by publishing through a
// channel, sync.WaitGroup, or similar. Callers unwilling to carry that
// obligation should use Guarded instead.
type Static[T any] struct {
	val T
	set bool
}

// New returns a pointer to an empty Static. It is a convenience for call
// sites that pass slots around; declaring a zero-value Static is equivalent
// and avoids the allocation.
func New[T any]() *Static[T] {
	return &Static[T]{}
}

// Assign stores val into the slot. It works exactly once per armed cycle: a
// second Assign without an intervening Clear panics with ErrSecondAssignment
// instead of silently overwriting.
func (s *Static[T]) Assign(val T) {
	if s.set {
		panic(ErrSecondAssignment)
	}
	s.val = val
	s.set = true
}

// Clear empties the slot, zeroing the held value so it no longer pins any
// references, and re-arms the Static for a later Assign. Clearing an empty
// Static panics with ErrClearWithoutValue.
func (s *Static[T]) Clear() {
	if !s.set {
		panic(ErrClearWithoutValue)
	}
	var zero T
	s.val = zero
	s.set = false
}

// HasValue reports whether the slot currently holds a value. The read is
// unsynchronized like every other Static operation.
func (s *Static[T]) HasValue() bool {
	return s.set
}

// Get returns a pointer into the slot, the closest Go rendering of using the
// container as if it were the value itself: fields and methods of T are
// reachable directly, and mutations through the pointer are observed by
// every later Get or Value. Get panics with ErrNotAssigned while the slot is
// empty. Clear invalidates previously returned pointers; holding one across
// a Clear falls under the same external-ordering obligation as any access.
func (s *Static[T]) Get() *T {
	if !s.set {
		panic(ErrNotAssigned)
	}
	return &s.val
}

// Value returns a copy of the held value. It panics with ErrNotAssigned
// while the slot is empty.
func (s *Static[T]) Value() T {
	if !s.set {
		panic(ErrNotAssigned)
	}
	return s.val
}
