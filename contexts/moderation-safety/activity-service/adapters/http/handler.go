package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"clearwater/contexts/moderation-safety/activity-service/application"
	httptransport "clearwater/contexts/moderation-safety/activity-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListActivityHandler returns the staff activity feed, newest-first.
//
// @Summary List staff activity entries
// @Tags activity
// @Produce json
// @Param limit query int false "maximum entries to return"
// @Success 200 {object} http.ActivityListResponse
// @Router /api/activity/v1/entries [get]
func (h Handler) ListActivityHandler(ctx context.Context, limit int) (httptransport.ActivityListResponse, error) {
	items, err := h.Service.List(ctx, limit)
	if err != nil {
		return httptransport.ActivityListResponse{}, err
	}

	resp := httptransport.ActivityListResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.Items = make([]struct {
		ID        string `json:"id"`
		ActorID   string `json:"actor_id"`
		ActorName string `json:"actor_name"`
		AvatarRef string `json:"avatar_ref,omitempty"`
		Action    string `json:"action"`
		CreatedAt string `json:"created_at"`
	}, 0, len(items))
	for _, item := range items {
		resp.Data.Items = append(resp.Data.Items, struct {
			ID        string `json:"id"`
			ActorID   string `json:"actor_id"`
			ActorName string `json:"actor_name"`
			AvatarRef string `json:"avatar_ref,omitempty"`
			Action    string `json:"action"`
			CreatedAt string `json:"created_at"`
		}{
			ID:        item.ID,
			ActorID:   item.ActorID,
			ActorName: item.ActorName,
			AvatarRef: item.AvatarRef,
			Action:    item.Action,
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
