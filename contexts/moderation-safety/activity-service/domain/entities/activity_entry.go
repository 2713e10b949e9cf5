package entities

import "time"

// ActivityEntry is one append-only oversight record of a staff action.
// Entries are never mutated or deleted by the core. The id doubles as
// the dedupe key for replayed side-channel events.
type ActivityEntry struct {
	ID        string
	ActorID   string
	ActorName string
	AvatarRef string
	Action    string
	CreatedAt time.Time
}
