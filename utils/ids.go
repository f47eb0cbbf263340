package utils

import (
	"github.com/google/uuid"
)

// GenerateUserID returns a new unique user id.
func GenerateUserID() string {
	return uuid.New().String()
}

// GenerateNoteID returns a new unique note id. Assigned once at creation,
// immutable thereafter.
func GenerateNoteID() string {
	return uuid.New().String()
}
