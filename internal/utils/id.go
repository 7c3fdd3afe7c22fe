package utils

import "github.com/google/uuid"

// NewID returns a transient identifier for a single connection. It is
// not stable across reconnects; logical player identity is (room, name).
func NewID() string {
	return uuid.NewString()
}
