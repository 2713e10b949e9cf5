package ports

import (
	"context"
	"time"

	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	"clearwater/internal/shared/events"
)

type Clock interface {
	Now() time.Time
}

// Actor identifies the staff member performing a mutation.
type Actor struct {
	ID        string
	Name      string
	AvatarRef string
}

// CreateLogInput is the caller-supplied part of a new entry.
type CreateLogInput struct {
	TargetID   string
	TargetName string
	ActionKind string
	Reason     string
}

// Repository owns log entries.
//
// Insert assigns the id and createdAt and, inside the same critical
// section, counts qualifying entries for the entry's target: exact
// case-insensitive targetName match, Automation-authored entries
// excluded, the entry just inserted included. Keeping insert and count
// atomic is what makes the escalation decision race-free.
type Repository interface {
	Insert(ctx context.Context, entry entities.LogEntry, now time.Time) (entities.LogEntry, int, error)

	// List returns entries pinned-first, then newest-first; ties inside a
	// timestamp break on descending id.
	List(ctx context.Context, limit int) ([]entities.LogEntry, error)

	// Complete transitions an Active Ban Bolo entry to Ban. Any other
	// current state yields ErrInvalidTransition; a missing id yields
	// ErrEntryNotFound. Two racing completions cannot both succeed.
	Complete(ctx context.Context, id int64, completedBy string, completedByID string, now time.Time) (entities.LogEntry, error)

	Delete(ctx context.Context, id int64) error
}

// ActivityPublisher is the best-effort side channel for the oversight
// feed. Implementations must not block the caller on slow consumers.
type ActivityPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
