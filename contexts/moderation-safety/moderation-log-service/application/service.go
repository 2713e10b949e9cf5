package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	domainerrors "clearwater/contexts/moderation-safety/moderation-log-service/domain/errors"
	"clearwater/contexts/moderation-safety/moderation-log-service/ports"
	"clearwater/internal/shared/events"
)

// EscalationThreshold is the repeat-offense policy constant: a target's
// third qualifying entry triggers a pinned ban bolo, and the policy
// re-fires at every further multiple (6, 9, ...).
const EscalationThreshold = 3

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service orchestrates the moderation log: create with auto-escalation,
// ordered listing, bolo completion and deletion. Staff actions are
// mirrored onto the activity side channel best-effort.
type Service struct {
	Repo          ports.Repository
	Clock         ports.Clock
	Publisher     ports.ActivityPublisher
	ActivityTopic string
	Logger        *slog.Logger
}

// CreateLog inserts a staff-authored entry and runs the escalation
// policy. The returned entry is the staff entry, never the synthetic one.
func (s Service) CreateLog(ctx context.Context, actor ports.Actor, input ports.CreateLogInput) (entities.LogEntry, error) {
	actor.ID = strings.TrimSpace(actor.ID)
	actor.Name = strings.TrimSpace(actor.Name)
	input.TargetID = strings.TrimSpace(input.TargetID)
	input.TargetName = strings.TrimSpace(input.TargetName)
	input.ActionKind = strings.TrimSpace(input.ActionKind)
	input.Reason = strings.TrimSpace(input.Reason)

	if actor.ID == "" || actor.Name == "" {
		return entities.LogEntry{}, domainerrors.ErrInvalidRequest
	}
	if input.TargetName == "" || input.ActionKind == "" {
		return entities.LogEntry{}, domainerrors.ErrInvalidRequest
	}
	if actor.Name == entities.AutomationAuthorName {
		// The sentinel is reserved for the engine.
		return entities.LogEntry{}, domainerrors.ErrInvalidRequest
	}

	entry := entities.LogEntry{
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		TargetID:   input.TargetID,
		TargetName: input.TargetName,
		ActionKind: input.ActionKind,
		Reason:     input.Reason,
	}

	created, count, err := s.Repo.Insert(ctx, entry, s.now())
	if err != nil {
		return entities.LogEntry{}, err
	}

	logger := ResolveLogger(s.Logger)
	logger.Info("moderation log created",
		"event", "moderation_log_created",
		"module", "moderation-safety/moderation-log-service",
		"layer", "application",
		"log_id", created.ID,
		"author_id", created.AuthorID,
		"target_name", created.TargetName,
		"action_kind", created.ActionKind,
		"qualifying_count", count,
	)

	s.escalate(ctx, created, count)
	s.publishStaffAction(ctx, actor,
		fmt.Sprintf("Created %s log #%d for %s", created.ActionKind, created.ID, created.TargetName))
	return created, nil
}

// escalate synthesizes one pinned Active Ban Bolo entry when the
// qualifying count crosses a multiple of the threshold. The synthetic
// entry is Automation-authored, so it can never feed its own count.
func (s Service) escalate(ctx context.Context, trigger entities.LogEntry, count int) {
	if count < EscalationThreshold || count%EscalationThreshold != 0 {
		return
	}

	synthetic := entities.LogEntry{
		AuthorName:        entities.AutomationAuthorName,
		TargetID:          trigger.TargetID,
		TargetName:        trigger.TargetName,
		ActionKind:        entities.ActionActiveBanBolo,
		Reason:            fmt.Sprintf("Reached %d previous punishments", count),
		PriorOffenseCount: count,
		Pinned:            true,
	}

	logger := ResolveLogger(s.Logger)
	created, _, err := s.Repo.Insert(ctx, synthetic, s.now())
	if err != nil {
		// The staff entry is already persisted; surfacing the failure
		// would force the caller to retry a create that succeeded.
		logger.Error("escalation insert failed",
			"event", "moderation_escalation_failed",
			"module", "moderation-safety/moderation-log-service",
			"layer", "application",
			"target_name", trigger.TargetName,
			"qualifying_count", count,
			"error", err.Error(),
		)
		return
	}
	logger.Info("escalation bolo created",
		"event", "moderation_escalation_created",
		"module", "moderation-safety/moderation-log-service",
		"layer", "application",
		"log_id", created.ID,
		"target_name", created.TargetName,
		"prior_offense_count", created.PriorOffenseCount,
	)
}

// ListLogs returns entries pinned-first, newest-first.
func (s Service) ListLogs(ctx context.Context, limit int) ([]entities.LogEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.Repo.List(ctx, limit)
}

// CompleteLog converts an Active Ban Bolo into a Ban on behalf of actor.
func (s Service) CompleteLog(ctx context.Context, actor ports.Actor, id int64) (entities.LogEntry, error) {
	actor.ID = strings.TrimSpace(actor.ID)
	actor.Name = strings.TrimSpace(actor.Name)
	if actor.ID == "" || actor.Name == "" || id <= 0 {
		return entities.LogEntry{}, domainerrors.ErrInvalidRequest
	}

	completed, err := s.Repo.Complete(ctx, id, actor.Name, actor.ID, s.now())
	if err != nil {
		return entities.LogEntry{}, err
	}

	s.publishStaffAction(ctx, actor,
		fmt.Sprintf("Completed ban bolo #%d for %s", completed.ID, completed.TargetName))
	return completed, nil
}

// DeleteLog removes one entry by id.
func (s Service) DeleteLog(ctx context.Context, actor ports.Actor, id int64) error {
	actor.ID = strings.TrimSpace(actor.ID)
	actor.Name = strings.TrimSpace(actor.Name)
	if actor.ID == "" || actor.Name == "" || id <= 0 {
		return domainerrors.ErrInvalidRequest
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishStaffAction(ctx, actor, fmt.Sprintf("Deleted log #%d", id))
	return nil
}

// publishStaffAction mirrors a mutation onto the oversight feed. Best
// effort: failures are logged and never surfaced to the caller, and the
// publish outlives request cancellation so a logged mutation is not
// silently missing from the feed.
func (s Service) publishStaffAction(ctx context.Context, actor ports.Actor, action string) {
	if s.Publisher == nil {
		return
	}

	envelope := events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      events.EventStaffActionRecorded,
		SourceService:  "moderation-log-service",
		OccurredAtUTC:  s.now(),
		EntityType:     "staff_action",
		EntityID:       actor.ID,
		PayloadVersion: 1,
		Payload: events.StaffActionPayload{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			AvatarRef: actor.AvatarRef,
			Action:    action,
		},
	}

	if err := s.Publisher.Publish(context.WithoutCancel(ctx), s.ActivityTopic, envelope); err != nil {
		ResolveLogger(s.Logger).Warn("staff action publish failed",
			"event", "moderation_activity_publish_failed",
			"module", "moderation-safety/moderation-log-service",
			"layer", "application",
			"actor_id", actor.ID,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
