package httpserver

import (
	"net/http"
	"strconv"

	"clearwater/contexts/identity-access/membership-service/domain/entities"
	activityhttp "clearwater/contexts/moderation-safety/activity-service/transport/http"
)

// The activity feed is oversight material: HumanResources only.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireTier(w, r, entities.TierHumanResources); !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, activityhttp.ErrorResponse{
				Code:    "invalid_limit",
				Message: "limit must be an integer",
			})
			return
		}
		limit = parsed
	}

	resp, err := s.activity.Handler.ListActivityHandler(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, activityhttp.ErrorResponse{
			Code:    "internal_error",
			Message: "internal server error",
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
