package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clearwater/contexts/identity-access/membership-service/domain/entities"
	domainerrors "clearwater/contexts/identity-access/membership-service/domain/errors"
	"clearwater/contexts/identity-access/membership-service/ports"
)

const defaultDirectoryTimeout = 3 * time.Second

// Service resolves role verdicts from the membership directory and turns
// them into pass/deny decisions. Every uncertainty resolves to deny.
type Service struct {
	Directory        ports.DirectoryClient
	Clock            ports.Clock
	GuildID          string
	StaffRoleID      string
	DispatchRoleID   string
	HRRoleID         string
	DirectoryTimeout time.Duration
	Logger           *slog.Logger
}

// Resolve computes the capability set for a principal. Each flag is one
// set-membership probe against a configured role id; probes never raise
// to the caller, a failed or timed-out probe leaves its flag false.
func (s Service) Resolve(ctx context.Context, principalID string) (entities.RoleVerdict, error) {
	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return entities.RoleVerdict{}, domainerrors.ErrInvalidPrincipalID
	}

	logger := ResolveLogger(s.Logger)
	verdict := entities.RoleVerdict{
		PrincipalID: principalID,
		CheckedAt:   s.now(),
	}

	if s.Directory == nil || !s.Directory.Ready() {
		logger.Warn("directory not ready, failing closed",
			"event", "membership_directory_not_ready",
			"module", "identity-access/membership-service",
			"layer", "application",
			"principal_id", principalID,
		)
		return verdict, nil
	}

	bindings := []struct {
		tier   entities.Tier
		roleID string
	}{
		{entities.TierStaff, s.StaffRoleID},
		{entities.TierDispatch, s.DispatchRoleID},
		{entities.TierHumanResources, s.HRRoleID},
	}
	for _, binding := range bindings {
		if binding.roleID == "" {
			continue
		}
		if s.hasRole(ctx, principalID, binding.roleID, logger) {
			verdict.Grant(binding.tier)
		}
	}
	return verdict, nil
}

// Authorize gates a request on a tier. Nil principal means the caller
// should start the login flow; a present principal without the flag gets
// a terminal denial so login loops cannot form.
func (s Service) Authorize(ctx context.Context, principal *entities.Principal, tier entities.Tier) entities.Decision {
	if principal == nil || strings.TrimSpace(principal.ID) == "" {
		return entities.DecisionUnauthenticated
	}

	verdict, err := s.Resolve(ctx, principal.ID)
	if err != nil {
		return entities.DecisionDenied
	}
	if !verdict.Allows(tier) {
		ResolveLogger(s.Logger).Warn("access denied",
			"event", "membership_access_denied",
			"module", "identity-access/membership-service",
			"layer", "application",
			"principal_id", principal.ID,
			"tier", string(tier),
		)
		return entities.DecisionDenied
	}
	return entities.DecisionAllowed
}

func (s Service) hasRole(ctx context.Context, principalID string, roleID string, logger *slog.Logger) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.directoryTimeout())
	defer cancel()

	has, err := s.Directory.HasRole(probeCtx, s.GuildID, principalID, roleID)
	if err != nil {
		logger.Warn("role probe failed, failing closed",
			"event", "membership_role_probe_failed",
			"module", "identity-access/membership-service",
			"layer", "application",
			"principal_id", principalID,
			"role_id", roleID,
			"error", err.Error(),
		)
		return false
	}
	return has
}

func (s Service) directoryTimeout() time.Duration {
	if s.DirectoryTimeout <= 0 {
		return defaultDirectoryTimeout
	}
	return s.DirectoryTimeout
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
