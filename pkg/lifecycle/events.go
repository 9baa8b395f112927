package lifecycle

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verbs emitted for slot lifecycle transitions.
const (
	// VerbAssigned marks a slot receiving its value.
	VerbAssigned = "static.assigned"
	// VerbCleared marks a slot being emptied.
	VerbCleared = "static.cleared"
)

// StaticEventInput describes the common fields for slot lifecycle events.
type StaticEventInput struct {
	Name       string
	TypeName   string
	SnapshotID string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// NewSnapshotID returns a fresh identifier correlating one assignment with
// the events and journal entries it produces.
func NewSnapshotID() string {
	return uuid.NewString()
}

// BuildAssignedEvent constructs a normalized event for a slot assignment.
func BuildAssignedEvent(input StaticEventInput) Event {
	return buildStaticEvent(VerbAssigned, input)
}

// BuildClearedEvent constructs a normalized event for a slot clear.
func BuildClearedEvent(input StaticEventInput) Event {
	return buildStaticEvent(VerbCleared, input)
}

func buildStaticEvent(verb string, input StaticEventInput) Event {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSpace(input.TypeName)
	}
	return Event{
		Verb:       verb,
		Name:       name,
		TypeName:   strings.TrimSpace(input.TypeName),
		SnapshotID: strings.TrimSpace(input.SnapshotID),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   cloneMap(input.Metadata),
		OccurredAt: input.OccurredAt,
	}
}
