package coachdesk_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimited       = errors.New("rate limited")
	ErrAlreadyExists     = errors.New("already exists")
	ErrActorNotFound     = errors.New("actor profile not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrThreadFrozen      = errors.New("thread is frozen")
	ErrContentBlocked    = errors.New("message violates the content policy")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
