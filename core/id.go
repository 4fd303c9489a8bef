package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for runs and tool invocations.
func NewID() string {
	return uuid.New().String()
}
