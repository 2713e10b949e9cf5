package entities

import "time"

// Principal is the identity supplied per request by the authentication
// collaborator. The core never stores it.
type Principal struct {
	ID          string
	DisplayName string
	AvatarRef   string
}

// Tier is a named access level granted independently via external role
// membership. Tiers are flags, not a hierarchy.
type Tier string

const (
	TierStaff          Tier = "staff"
	TierDispatch       Tier = "dispatch"
	TierHumanResources Tier = "human_resources"
)

// RoleVerdict is the capability set resolved for one principal. Every
// flag defaults to false until the directory proves it true.
type RoleVerdict struct {
	PrincipalID      string
	IsStaff          bool
	HasDispatchAccess bool
	IsHumanResources bool
	CheckedAt        time.Time
}

// Allows reports whether the verdict carries the flag a tier requires.
func (v RoleVerdict) Allows(tier Tier) bool {
	switch tier {
	case TierStaff:
		return v.IsStaff
	case TierDispatch:
		return v.HasDispatchAccess
	case TierHumanResources:
		return v.IsHumanResources
	default:
		return false
	}
}

// Grant sets the flag for a tier. Used by the resolver's parameterized
// role check.
func (v *RoleVerdict) Grant(tier Tier) {
	switch tier {
	case TierStaff:
		v.IsStaff = true
	case TierDispatch:
		v.HasDispatchAccess = true
	case TierHumanResources:
		v.IsHumanResources = true
	}
}

// Decision is the outcome of an access check.
type Decision string

const (
	// DecisionAllowed lets the request proceed.
	DecisionAllowed Decision = "allowed"
	// DecisionUnauthenticated means no principal was attached; the caller
	// should send the user to the login flow.
	DecisionUnauthenticated Decision = "unauthenticated"
	// DecisionDenied means the principal lacks the required tier; the
	// caller should render a denial, never redirect to login.
	DecisionDenied Decision = "denied"
)
