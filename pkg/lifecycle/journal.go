package lifecycle

import (
	"context"
	"encoding/json"
	"sync"
)

// DefaultJournalCapacity bounds a Journal when no explicit capacity is given.
const DefaultJournalCapacity = 64

// Journal keeps a fixed number of recent lifecycle events, overwriting the
// oldest when a new one arrives. It implements Hook so it can be wired
// directly into an emitter or a Traced slot, and it is safe for concurrent
// use.
type Journal struct {
	mu     sync.Mutex
	events []Event
	first  int
}

// NewJournal constructs a journal holding up to capacity events. A
// non-positive capacity falls back to DefaultJournalCapacity.
func NewJournal(capacity int) *Journal {
	if capacity < 1 {
		capacity = DefaultJournalCapacity
	}
	return &Journal{events: make([]Event, 0, capacity)}
}

// Notify records the event, evicting the oldest entry once the journal is
// full. It never fails.
func (j *Journal) Notify(_ context.Context, event Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	normalized := NormalizeEvent(event)
	if len(j.events) == cap(j.events) {
		j.events[j.first] = normalized
		j.first = (j.first + 1) % len(j.events)
	} else {
		j.events = append(j.events, normalized)
	}
	return nil
}

// Len returns the number of recorded events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}

// Cap returns the journal capacity.
func (j *Journal) Cap() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return cap(j.events)
}

// Events returns the recorded events ordered oldest to newest. The slice and
// the top level of each event's metadata are copies; values nested inside
// metadata are still shared with the journal.
func (j *Journal) Events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Event, 0, len(j.events))
	for i := 0; i < len(j.events); i++ {
		event := j.events[(j.first+i)%len(j.events)]
		event.Metadata = cloneMap(event.Metadata)
		out = append(out, event)
	}
	return out
}

// ToJSON serialises the journal contents, oldest to newest, for logging or
// transport helpers.
func (j *Journal) ToJSON() ([]byte, error) {
	return json.Marshal(j.Events())
}

// EventsFromJSON deserialises a payload previously generated via ToJSON.
func EventsFromJSON(payload []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, err
	}
	return events, nil
}
