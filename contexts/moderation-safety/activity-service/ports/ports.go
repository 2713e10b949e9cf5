package ports

import (
	"context"
	"time"

	"clearwater/contexts/moderation-safety/activity-service/domain/entities"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Repository owns the append-only activity stream.
type Repository interface {
	// Append inserts one entry. Appending an id that already exists is a
	// no-op so replayed side-channel events stay idempotent.
	Append(ctx context.Context, entry entities.ActivityEntry) error

	// List returns entries newest-first.
	List(ctx context.Context, limit int) ([]entities.ActivityEntry, error)
}
