// Package id provides UUIDv7 generation for session-scoped identifiers.
// UUIDv7 is time-ordered, so line items and sessions sort naturally by creation time.
package id

import (
	"github.com/google/uuid"
)

// New generates a new UUIDv7 string.
// Draft line items have no server identity until the draft is committed, so a
// locally unique, time-ordered id is enough to key them within a session.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.NewString()
	}
	return id.String()
}
