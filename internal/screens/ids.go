package screens

import "github.com/google/uuid"

// IDGenerator creates the client-side identifiers sent to the backend.
type IDGenerator interface {
	CustomerUserID() string
	ChatSessionID() string
}

// UUIDGenerator uses time-ordered UUIDv7 values, so ids sort by creation
// time and stay unique across installs.
type UUIDGenerator struct{}

func (UUIDGenerator) CustomerUserID() string {
	return "user_" + newV7()
}

func (UUIDGenerator) ChatSessionID() string {
	return "session_" + newV7()
}

func newV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
