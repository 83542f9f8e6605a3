package util

import "github.com/google/uuid"

// NewPublicID returns an opaque identifier safe to expose to clients.
// Internal row ids never leave the store layer.
func NewPublicID() string {
	return uuid.NewString()
}

// NewToken returns a single-use token for sessions, verification and resets.
func NewToken() string {
	return uuid.NewString()
}
