package late

import (
	"context"
	"reflect"

	"github.com/goliatone/go-late/pkg/lifecycle"
)

// TracedOption configures a Traced slot.
type TracedOption func(*tracedConfig)

type tracedConfig struct {
	hooks    lifecycle.Hooks
	channel  string
	metadata map[string]any
}

// WithLifecycleHooks attaches lifecycle hooks to a Traced slot. Hooks are
// cloned and nil entries dropped to preserve immutability.
func WithLifecycleHooks(hooks lifecycle.Hooks) TracedOption {
	normalized := cloneLifecycleHooks(hooks)
	return func(cfg *tracedConfig) {
		cfg.hooks = normalized
	}
}

// WithChannel overrides the default channel stamped on emitted events.
func WithChannel(channel string) TracedOption {
	return func(cfg *tracedConfig) {
		cfg.channel = channel
	}
}

// WithEventMetadata attaches metadata included on every emitted event. The
// map is copied so the slot stays immune to later caller mutation.
func WithEventMetadata(metadata map[string]any) TracedOption {
	return func(cfg *tracedConfig) {
		if len(metadata) == 0 {
			return
		}
		cfg.metadata = copyEventMetadata(metadata)
	}
}

// Traced wraps a Static and reports its lifecycle through pkg/lifecycle:
// each Assign mints a snapshot identifier and emits static.assigned, each
// Clear emits static.cleared for the assignment it retires. The slot
// semantics are exactly Static's, including the panic taxonomy and the
// caller-side happens-before obligation; hooks observe transitions, they do
// not synchronize them. Hook failures never interrupt slot operations, and
// misuse panics fire before any event is emitted.
type Traced[T any] struct {
	name       string
	typeName   string
	snapshotID string
	static     Static[T]
	emitter    *lifecycle.Emitter
	metadata   map[string]any
}

// NewTraced constructs an empty Traced slot registered under name.
func NewTraced[T any](name string, opts ...TracedOption) *Traced[T] {
	cfg := tracedConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Traced[T]{
		name:     name,
		typeName: reflect.TypeOf((*T)(nil)).Elem().String(),
		emitter: lifecycle.NewEmitter(cfg.hooks, lifecycle.Config{
			Enabled: len(cfg.hooks) > 0,
			Channel: cfg.channel,
		}),
		metadata: cfg.metadata,
	}
}

// Name returns the slot name stamped on emitted events.
func (tr *Traced[T]) Name() string {
	return tr.name
}

// SnapshotID returns the identifier minted for the current assignment, or
// the empty string while the slot is empty.
func (tr *Traced[T]) SnapshotID() string {
	return tr.snapshotID
}

// Assign stores val into the slot and emits static.assigned. It panics with
// ErrSecondAssignment if a value is already held.
func (tr *Traced[T]) Assign(val T) {
	tr.static.Assign(val)
	tr.snapshotID = lifecycle.NewSnapshotID()
	tr.emit(lifecycle.BuildAssignedEvent(tr.eventInput()))
}

// Clear empties the slot and emits static.cleared carrying the snapshot
// identifier of the assignment being retired. It panics with
// ErrClearWithoutValue if the slot is empty.
func (tr *Traced[T]) Clear() {
	tr.static.Clear()
	tr.emit(lifecycle.BuildClearedEvent(tr.eventInput()))
	tr.snapshotID = ""
}

// HasValue reports whether the slot currently holds a value.
func (tr *Traced[T]) HasValue() bool {
	return tr.static.HasValue()
}

// Get returns a pointer into the slot, panicking with ErrNotAssigned while
// the slot is empty. See Static.Get for the projection contract.
func (tr *Traced[T]) Get() *T {
	return tr.static.Get()
}

// Value returns a copy of the held value, panicking with ErrNotAssigned
// while the slot is empty.
func (tr *Traced[T]) Value() T {
	return tr.static.Value()
}

func (tr *Traced[T]) eventInput() lifecycle.StaticEventInput {
	return lifecycle.StaticEventInput{
		Name:       tr.name,
		TypeName:   tr.typeName,
		SnapshotID: tr.snapshotID,
		Metadata:   tr.metadata,
	}
}

func (tr *Traced[T]) emit(event lifecycle.Event) {
	// Hooks are advisory observers; their errors never surface through slot
	// operations.
	_ = tr.emitter.Emit(context.Background(), event)
}

func cloneLifecycleHooks(hooks lifecycle.Hooks) lifecycle.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]lifecycle.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return lifecycle.Hooks(normalized)
}

func copyEventMetadata(origin map[string]any) map[string]any {
	if len(origin) == 0 {
		return nil
	}
	out := make(map[string]any, len(origin))
	for key, value := range origin {
		out[key] = value
	}
	return out
}
