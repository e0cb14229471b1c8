package screens

import (
	"context"

	"github.com/dyike/NamaaGo/internal/models"
)

// History lists the chat sessions the backend kept for the user.
type History struct {
	deps     Deps
	sessions []models.ChatSessionSummary
}

func NewHistory(deps Deps) *History {
	return &History{deps: deps}
}

func (h *History) Enter(ctx context.Context) error {
	id, err := Gate(h.deps.Session)
	if err != nil {
		return err
	}

	sessions, err := h.deps.Backend.ChatSessions(ctx, id.UserID)
	if err != nil {
		h.deps.Log.WithError(err).Warn("load chat history")
		return &FetchError{Screen: RouteHistory, Err: err}
	}
	h.sessions = sessions
	return nil
}

func (h *History) Sessions() []models.ChatSessionSummary {
	return h.sessions
}
