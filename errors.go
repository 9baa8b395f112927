package late

import "errors"

// Panic sentinels raised on slot contract violations. These identify
// programmer errors (double initialization, use before initialization), so
// they are delivered by panic rather than an error return. Recover handlers
// can discriminate them with errors.Is.
var (
	// ErrSecondAssignment is raised by Assign when the slot already holds a value.
	ErrSecondAssignment = errors.New("late: second assignment to late static")
	// ErrNotAssigned is raised by Get, Value, and Use before a value was assigned.
	ErrNotAssigned = errors.New("late: dereference of late static before a value was assigned")
	// ErrClearWithoutValue is raised by Clear when the slot is empty.
	ErrClearWithoutValue = errors.New("late: tried to clear a late static without a value")
)

// Registration errors returned by Registry. Unlike the panic sentinels these
// are ordinary recoverable errors: wiring a registry is environment setup,
// not slot access.
var (
	// ErrSlotNameRequired indicates Register received an empty name.
	ErrSlotNameRequired = errors.New("late: slot name must be provided")
	// ErrNilSlot indicates Register received a nil slot.
	ErrNilSlot = errors.New("late: slot must not be nil")
	// ErrDuplicateSlot indicates the name was already registered.
	ErrDuplicateSlot = errors.New("late: slot already registered")
)
