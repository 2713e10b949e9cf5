package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"clearwater/contexts/identity-access/membership-service/application"
	httptransport "clearwater/contexts/identity-access/membership-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// VerdictHandler returns the caller's resolved capability set.
//
// @Summary Resolve the caller's role verdict
// @Tags membership
// @Produce json
// @Success 200 {object} http.VerdictResponse
// @Router /api/membership/v1/verdict [get]
func (h Handler) VerdictHandler(ctx context.Context, principalID string) (httptransport.VerdictResponse, error) {
	verdict, err := h.Service.Resolve(ctx, principalID)
	if err != nil {
		return httptransport.VerdictResponse{}, err
	}

	resp := httptransport.VerdictResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.PrincipalID = verdict.PrincipalID
	resp.Data.IsStaff = verdict.IsStaff
	resp.Data.HasDispatchAccess = verdict.HasDispatchAccess
	resp.Data.IsHumanResources = verdict.IsHumanResources
	resp.Data.CheckedAt = verdict.CheckedAt.UTC().Format(time.RFC3339)
	return resp, nil
}
