package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clearwater/contexts/moderation-safety/activity-service/domain/entities"
	domainerrors "clearwater/contexts/moderation-safety/activity-service/domain/errors"
	"clearwater/contexts/moderation-safety/activity-service/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service maintains the staff activity feed.
type Service struct {
	Repo        ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// RecordInput is one staff action to append. ID is optional; when set it
// acts as the idempotency key for replayed events.
type RecordInput struct {
	ID        string
	ActorID   string
	ActorName string
	AvatarRef string
	Action    string
}

func (s Service) Record(ctx context.Context, input RecordInput) error {
	input.ID = strings.TrimSpace(input.ID)
	input.ActorID = strings.TrimSpace(input.ActorID)
	input.ActorName = strings.TrimSpace(input.ActorName)
	input.Action = strings.TrimSpace(input.Action)

	if input.ActorID == "" || input.ActorName == "" || input.Action == "" {
		return domainerrors.ErrInvalidRequest
	}

	if input.ID == "" {
		id, err := s.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		input.ID = id
	}

	entry := entities.ActivityEntry{
		ID:        input.ID,
		ActorID:   input.ActorID,
		ActorName: input.ActorName,
		AvatarRef: input.AvatarRef,
		Action:    input.Action,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Append(ctx, entry); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("staff activity recorded",
		"event", "activity_recorded",
		"module", "moderation-safety/activity-service",
		"layer", "application",
		"entry_id", entry.ID,
		"actor_id", entry.ActorID,
	)
	return nil
}

// List returns the feed newest-first.
func (s Service) List(ctx context.Context, limit int) ([]entities.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.Repo.List(ctx, limit)
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
