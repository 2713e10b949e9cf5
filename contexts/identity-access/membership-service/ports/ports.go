package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// DirectoryClient is the external membership directory. HasRole is
// fallible and potentially slow; callers bound it with a timeout and
// treat every failure as "no role".
type DirectoryClient interface {
	// Ready reports whether the directory connection finished its
	// startup handshake. Checks must short-circuit to deny until then.
	Ready() bool

	HasRole(ctx context.Context, guildID string, principalID string, roleID string) (bool, error)
}
