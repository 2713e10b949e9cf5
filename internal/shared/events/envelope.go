package events

import "time"

// Envelope is the shared event shape used in Clearwater.
// Align fields with repository canonical event contract.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	CorrelationID  string    `json:"correlation_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}

// EventStaffActionRecorded is published on every staff-attributable
// moderation action and consumed by the activity feed.
const EventStaffActionRecorded = "moderation.staff_action.recorded"

// StaffActionPayload describes one staff-attributable action for the
// oversight feed. Delivery is best-effort: consumers must tolerate
// drops and must never block the producing mutation.
type StaffActionPayload struct {
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
	AvatarRef string `json:"avatar_ref,omitempty"`
	Action    string `json:"action"`
}
