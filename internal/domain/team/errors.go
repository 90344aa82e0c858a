package team

import "errors"

var (
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidWindow    = errors.New("end time must not be before start time")
	ErrInvalidEventType = errors.New("unknown event type")
	ErrMissingCommand   = errors.New("command is required")
)
