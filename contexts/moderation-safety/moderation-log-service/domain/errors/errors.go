package errors

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid log request")
	ErrEntryNotFound     = errors.New("log entry not found")
	ErrInvalidTransition = errors.New("invalid log entry transition")
)
