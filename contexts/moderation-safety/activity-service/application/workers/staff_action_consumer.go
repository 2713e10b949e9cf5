package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"clearwater/contexts/moderation-safety/activity-service/application"
	"clearwater/internal/shared/events"
)

// StaffActionConsumer appends staff-action events to the activity feed.
// It is the consuming end of the best-effort side channel: handler
// errors are logged and swallowed so the feed never interferes with the
// producing mutation.
type StaffActionConsumer struct {
	Service application.Service
	Logger  *slog.Logger
}

// Handle processes one envelope. Unknown event types are ignored.
func (c StaffActionConsumer) Handle(ctx context.Context, envelope events.Envelope) error {
	if envelope.EventType != events.EventStaffActionRecorded {
		return nil
	}

	payload, err := decodePayload(envelope.Payload)
	if err != nil {
		c.logger().Warn("skipping undecodable staff action",
			"event", "activity_payload_decode_failed",
			"module", "moderation-safety/activity-service",
			"layer", "application",
			"event_id", envelope.EventID,
			"error", err.Error(),
		)
		return nil
	}

	err = c.Service.Record(ctx, application.RecordInput{
		ID:        envelope.EventID,
		ActorID:   payload.ActorID,
		ActorName: payload.ActorName,
		AvatarRef: payload.AvatarRef,
		Action:    payload.Action,
	})
	if err != nil {
		c.logger().Error("staff action append failed",
			"event", "activity_append_failed",
			"module", "moderation-safety/activity-service",
			"layer", "application",
			"event_id", envelope.EventID,
			"error", err.Error(),
		)
	}
	return nil
}

// Run drains an in-process subscription until ctx is cancelled.
func (c StaffActionConsumer) Run(ctx context.Context, ch <-chan events.Envelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case envelope, ok := <-ch:
			if !ok {
				return
			}
			_ = c.Handle(ctx, envelope)
		}
	}
}

// decodePayload tolerates both in-process typed payloads and JSON maps
// from the broker path.
func decodePayload(raw any) (events.StaffActionPayload, error) {
	if payload, ok := raw.(events.StaffActionPayload); ok {
		return payload, nil
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return events.StaffActionPayload{}, err
	}
	var payload events.StaffActionPayload
	if err := json.Unmarshal(buf, &payload); err != nil {
		return events.StaffActionPayload{}, err
	}
	return payload, nil
}

func (c StaffActionConsumer) logger() *slog.Logger {
	return application.ResolveLogger(c.Logger)
}
