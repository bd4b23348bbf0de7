package services

import "errors"

// Sentinel errors for every validation failure the API surfaces.
// Services wrap these with detail (which item, which state) via %w;
// controllers match with errors.Is to pick the HTTP status.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state")
	ErrInvalidItem      = errors.New("invalid item")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrConflict         = errors.New("conflict")
)
