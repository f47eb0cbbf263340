package model

import "errors"

// Shared failure modes surfaced across the store boundary.
var (
	// ErrNotAuthenticated is returned when a mutation is attempted with no
	// active user. The gateway is never contacted in that case.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrNoteNotFound distinguishes a missing note on direct fetch from a
	// generic gateway failure.
	ErrNoteNotFound = errors.New("note not found")
)
