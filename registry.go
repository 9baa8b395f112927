package late

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Slot is the presence view a Registry keeps of a registered static. It is
// satisfied by *Static[T], *Guarded[T], and *Traced[T] for any T.
type Slot interface {
	HasValue() bool
}

// Registry names a set of slots so boot code can verify that every late
// static was assigned before the process starts serving. Registration is
// environment wiring and reports problems as errors; the slots themselves
// keep their panic semantics.
type Registry struct {
	mu    sync.RWMutex
	slots map[string]Slot
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[string]Slot),
	}
}

// Register stores slot under name, guarding against duplicates. Names are
// case sensitive and trimmed of surrounding whitespace. A nil slot, typed or
// untyped, is rejected with ErrNilSlot.
func (r *Registry) Register(name string, slot Slot) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return ErrSlotNameRequired
	}
	if isNilSlot(slot) {
		return fmt.Errorf("%w: %s", ErrNilSlot, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots == nil {
		r.slots = make(map[string]Slot)
	}
	if _, exists := r.slots[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSlot, key)
	}
	r.slots[key] = slot
	return nil
}

// Lookup returns the slot registered under name.
func (r *Registry) Lookup(name string) (Slot, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	slot, ok := r.slots[strings.TrimSpace(name)]
	r.mu.RUnlock()
	return slot, ok
}

// Len returns the number of registered slots.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Names returns registered slot names sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unassigned returns the sorted names of slots that do not currently hold a
// value. Reading occupancy is subject to each slot's own synchronization
// contract, so for Static slots the caller sequences this after assignment.
func (r *Registry) Unassigned() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, slot := range r.slots {
		if !slot.HasValue() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Ready returns nil when every registered slot holds a value, and otherwise
// a single error naming the slots still waiting for assignment. Intended as
// the last step of process initialization.
func (r *Registry) Ready() error {
	missing := r.Unassigned()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("late: unassigned slots: %s", strings.Join(missing, ", "))
}

// isNilSlot reports whether slot is nil, either as a bare nil interface or as
// a typed nil pointer. A typed nil compares non-nil as an interface and then
// panics on the first HasValue call.
func isNilSlot(slot Slot) bool {
	if slot == nil {
		return true
	}
	value := reflect.ValueOf(slot)
	return value.Kind() == reflect.Pointer && value.IsNil()
}
