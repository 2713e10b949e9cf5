package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"clearwater/contexts/identity-access/membership-service/domain/entities"
	moderationerrors "clearwater/contexts/moderation-safety/moderation-log-service/domain/errors"
	"clearwater/contexts/moderation-safety/moderation-log-service/ports"
	moderationhttp "clearwater/contexts/moderation-safety/moderation-log-service/transport/http"
)

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireTier(w, r, entities.TierStaff); !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeModerationError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}

	resp, err := s.moderation.Handler.ListLogsHandler(r.Context(), limit)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requireTier(w, r, entities.TierStaff)
	if !ok {
		return
	}

	var req moderationhttp.CreateLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeModerationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.moderation.Handler.CreateLogHandler(r.Context(), actorFromPrincipal(principal), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCompleteLog(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requireTier(w, r, entities.TierStaff)
	if !ok {
		return
	}

	id, err := parseLogID(r.PathValue("log_id"))
	if err != nil {
		writeModerationError(w, http.StatusBadRequest, "invalid_log_id", "log id must be a positive integer")
		return
	}

	resp, err := s.moderation.Handler.CompleteLogHandler(r.Context(), actorFromPrincipal(principal), id)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Deletion requires the HumanResources tier, a stricter gate than the
// Staff tier that created the entry.
func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requireTier(w, r, entities.TierHumanResources)
	if !ok {
		return
	}

	id, err := parseLogID(r.PathValue("log_id"))
	if err != nil {
		writeModerationError(w, http.StatusBadRequest, "invalid_log_id", "log id must be a positive integer")
		return
	}

	resp, err := s.moderation.Handler.DeleteLogHandler(r.Context(), actorFromPrincipal(principal), id)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func actorFromPrincipal(principal *entities.Principal) ports.Actor {
	return ports.Actor{
		ID:        principal.ID,
		Name:      principal.DisplayName,
		AvatarRef: principal.AvatarRef,
	}
}

func parseLogID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid log id")
	}
	return id, nil
}

func writeModerationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, moderationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeModerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderationerrors.ErrEntryNotFound):
		writeModerationError(w, http.StatusNotFound, "entry_not_found", err.Error())
	case errors.Is(err, moderationerrors.ErrInvalidTransition):
		writeModerationError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, moderationerrors.ErrInvalidRequest):
		writeModerationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeModerationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
