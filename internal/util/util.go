package util

import (
	"github.com/google/uuid"
)

// NewID returns a new random identifier for sessions, players, transactions and join requests
func NewID() string {
	return uuid.New().String()
}
