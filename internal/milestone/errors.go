package milestone

import "errors"

var (
	ErrNotFound          = errors.New("milestone not found")
	ErrInvalidType       = errors.New("invalid milestone type")
	ErrInvalidPriority   = errors.New("invalid milestone priority")
	ErrInvalidStatus     = errors.New("invalid milestone status")
	ErrInvalidTransition = errors.New("invalid milestone status transition")
	ErrEmptyTitle        = errors.New("milestone title is required")
)
