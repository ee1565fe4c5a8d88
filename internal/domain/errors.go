package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrEmptySelection     = errors.New("empty selection")
	ErrConflict           = errors.New("conflicting concurrent update")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrTimeout            = errors.New("operation timed out")
)
