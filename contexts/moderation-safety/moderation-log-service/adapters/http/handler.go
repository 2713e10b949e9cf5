package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clearwater/contexts/moderation-safety/moderation-log-service/application"
	"clearwater/contexts/moderation-safety/moderation-log-service/domain/entities"
	"clearwater/contexts/moderation-safety/moderation-log-service/ports"
	httptransport "clearwater/contexts/moderation-safety/moderation-log-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// ListLogsHandler returns the ordered moderation log.
//
// @Summary List moderation log entries
// @Tags moderation
// @Produce json
// @Param limit query int false "maximum entries to return"
// @Success 200 {object} http.LogListResponse
// @Router /api/moderation/v1/logs [get]
func (h Handler) ListLogsHandler(ctx context.Context, limit int) (httptransport.LogListResponse, error) {
	items, err := h.Service.ListLogs(ctx, limit)
	if err != nil {
		return httptransport.LogListResponse{}, err
	}

	resp := httptransport.LogListResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.Items = make([]httptransport.LogEntryBody, 0, len(items))
	for _, item := range items {
		resp.Data.Items = append(resp.Data.Items, mapLogEntry(item))
	}
	return resp, nil
}

// CreateLogHandler records a staff moderation action.
//
// @Summary Create a moderation log entry
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body http.CreateLogRequest true "log entry"
// @Success 201 {object} http.LogResponse
// @Router /api/moderation/v1/logs [post]
func (h Handler) CreateLogHandler(ctx context.Context, actor ports.Actor, req httptransport.CreateLogRequest) (httptransport.LogResponse, error) {
	created, err := h.Service.CreateLog(ctx, actor, ports.CreateLogInput{
		TargetID:   strings.TrimSpace(req.TargetID),
		TargetName: strings.TrimSpace(req.TargetName),
		ActionKind: strings.TrimSpace(req.ActionKind),
		Reason:     strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return httptransport.LogResponse{}, err
	}
	return httptransport.LogResponse{
		Status:    "success",
		Data:      mapLogEntry(created),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// CompleteLogHandler converts an Active Ban Bolo into a Ban.
//
// @Summary Complete a ban bolo
// @Tags moderation
// @Produce json
// @Param log_id path int true "log entry id"
// @Success 200 {object} http.LogResponse
// @Router /api/moderation/v1/logs/{log_id}/complete [post]
func (h Handler) CompleteLogHandler(ctx context.Context, actor ports.Actor, id int64) (httptransport.LogResponse, error) {
	completed, err := h.Service.CompleteLog(ctx, actor, id)
	if err != nil {
		return httptransport.LogResponse{}, err
	}
	return httptransport.LogResponse{
		Status:    "success",
		Data:      mapLogEntry(completed),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// DeleteLogHandler removes one entry.
//
// @Summary Delete a moderation log entry
// @Tags moderation
// @Produce json
// @Param log_id path int true "log entry id"
// @Success 200 {object} http.DeleteResponse
// @Router /api/moderation/v1/logs/{log_id} [delete]
func (h Handler) DeleteLogHandler(ctx context.Context, actor ports.Actor, id int64) (httptransport.DeleteResponse, error) {
	if err := h.Service.DeleteLog(ctx, actor, id); err != nil {
		return httptransport.DeleteResponse{}, err
	}
	resp := httptransport.DeleteResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.ID = id
	return resp, nil
}

func mapLogEntry(entry entities.LogEntry) httptransport.LogEntryBody {
	body := httptransport.LogEntryBody{
		ID:                entry.ID,
		AuthorID:          optionalString(entry.AuthorID),
		AuthorName:        optionalString(entry.AuthorName),
		TargetID:          optionalString(entry.TargetID),
		TargetName:        entry.TargetName,
		ActionKind:        entry.ActionKind,
		Reason:            entry.Reason,
		PriorOffenseCount: entry.PriorOffenseCount,
		CreatedAt:         entry.CreatedAt.UTC().Format(time.RFC3339),
		Pinned:            entry.Pinned,
		Completed:         entry.Completed,
		CompletedBy:       optionalString(entry.CompletedBy),
		CompletedByID:     optionalString(entry.CompletedByID),
	}
	if entry.CompletedAt != nil {
		formatted := entry.CompletedAt.UTC().Format(time.RFC3339)
		body.CompletedAt = &formatted
	}
	return body
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
