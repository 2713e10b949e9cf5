package errors

import "errors"

var (
	ErrInvalidPrincipalID = errors.New("invalid principal id")
	ErrUnknownTier        = errors.New("unknown access tier")
)
