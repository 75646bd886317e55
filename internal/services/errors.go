package services

import "errors"

// Sentinel errors for the training core. All of them are recoverable,
// user-facing rejections: no storage mutation has happened when they are
// returned.
var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrScenarioNotFound    = errors.New("scenario not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidAction       = errors.New("invalid action")
	ErrSessionNotFound     = errors.New("bot session not found or expired")
	ErrBotPracticeOffline  = errors.New("bot practice unavailable")
)
