package postgresadapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator creates stable identifiers for activity entries.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the default runtime clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
