package models

import "time"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the transcript.
type ChatMessage struct {
	Role      ChatRole `json:"role"`
	Content   string   `json:"content"`
	Timestamp string   `json:"timestamp"`
}

// NewChatMessage stamps the turn with an ISO-8601 UTC timestamp.
func NewChatMessage(role ChatRole, content string, at time.Time) ChatMessage {
	return ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
	}
}

// Time parses the timestamp, returning the zero time when it is malformed.
func (m ChatMessage) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ChatSessionSummary is a past conversation as listed by the backend.
type ChatSessionSummary struct {
	ID            FlexID        `json:"id"`
	SessionID     string        `json:"session_id"`
	Title         string        `json:"title"`
	Messages      []ChatMessage `json:"messages"`
	TotalMessages int           `json:"total_messages"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}
