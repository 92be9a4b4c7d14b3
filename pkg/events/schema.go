package events

// EventType defines the type of event
type EventType string

// The wire shape for all of these is kafka.MatchEvent; the event type and
// schema version ride along as message headers.
const (
	// Run events
	EventTypeRunCompleted EventType = "run.completed"
	EventTypeRunFailed    EventType = "run.failed"

	// Match events
	EventTypeMatchFound EventType = "match.found"
)
