package httpserver

import (
	"errors"
	"net/http"
	"time"

	"clearwater/contexts/identity-access/membership-service/domain/entities"
	membershiperrors "clearwater/contexts/identity-access/membership-service/domain/errors"
	membershiphttp "clearwater/contexts/identity-access/membership-service/transport/http"
)

// handleVerdict resolves the caller's own capability set. Any
// authenticated principal may ask; the answer is what gates everything
// else, so it needs no tier of its own.
func (s *Server) handleVerdict(w http.ResponseWriter, r *http.Request) {
	principal := principalFromRequest(r)
	if principal == nil {
		writeJSON(w, http.StatusUnauthorized, membershiphttp.ErrorResponse{
			Code:     "unauthenticated",
			Message:  "sign in to continue",
			Redirect: loginRedirect,
		})
		return
	}

	resp, err := s.membership.Handler.VerdictHandler(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, membershiperrors.ErrInvalidPrincipalID) {
			writeJSON(w, http.StatusBadRequest, membershiphttp.ErrorResponse{
				Code:    "invalid_principal",
				Message: err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, membershiphttp.ErrorResponse{
			Code:    "internal_error",
			Message: "internal server error",
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDispatchAccess confirms Dispatch-tier access for the CAD surface.
//
// @Summary Confirm dispatch access
// @Tags membership
// @Produce json
// @Success 200 {object} http.DispatchAccessResponse
// @Router /api/dispatch/v1/access [get]
func (s *Server) handleDispatchAccess(w http.ResponseWriter, r *http.Request) {
	principal, ok := s.requireTier(w, r, entities.TierDispatch)
	if !ok {
		return
	}

	resp := membershiphttp.DispatchAccessResponse{Status: "success", Timestamp: time.Now().UTC().Format(time.RFC3339)}
	resp.Data.PrincipalID = principal.ID
	resp.Data.Tier = string(entities.TierDispatch)
	writeJSON(w, http.StatusOK, resp)
}
