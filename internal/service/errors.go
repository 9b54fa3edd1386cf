package service

import "errors"

var (
	ErrUnknownActivity     = errors.New("unknown activity")
	ErrInvalidMood         = errors.New("mood index out of range")
	ErrMoodAlreadyRecorded = errors.New("mood already recorded today")
)
