package screens

import (
	"context"
	"strings"
	"sync"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/models"
)

const (
	WelcomeMessage = "مرحباً! أنا نماء، مساعدك المالي الذكي. كيف يمكنني مساعدتك اليوم؟\n\n" +
		"Hello! I'm Nama'a, your intelligent financial advisor. How can I help you today?"

	ApologyMessage = "عذراً، حدث خطأ. حاول مرة أخرى.\nSorry, an error occurred. Please try again."
)

var suggestedQuestions = []string{
	"كيف يمكنني توفير المال؟ How can I save money?",
	"ما هي أفضل الاستثمارات الحلال؟ What are the best halal investments?",
	"حلل إنفاقي الشهري Analyze my monthly spending",
	"اقترح خطة ميزانية Suggest a budget plan",
}

var quickActions = []string{
	"Show me my investment options",
	"Analyze my spending patterns",
	"Help me create a budget",
}

// Chat keeps the transcript of one chat-screen visit. At most one send is
// outstanding at a time.
type Chat struct {
	deps Deps

	mu         sync.Mutex
	identity   models.Identity
	sessionID  string
	transcript []models.ChatMessage
	sending    bool
}

func NewChat(deps Deps) *Chat {
	return &Chat{deps: deps}
}

// Enter checks the session, starts a new chat session id and seeds the
// transcript with the welcome turn.
func (c *Chat) Enter() error {
	id, err := Gate(c.deps.Session)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = id
	c.sessionID = c.deps.ids().ChatSessionID()
	c.transcript = []models.ChatMessage{
		models.NewChatMessage(models.RoleAssistant, WelcomeMessage, c.deps.now()),
	}
	c.sending = false
	return nil
}

// Send appends the user turn, posts it and appends the reply, or the fixed
// apology when the call fails. It reports false without side effects when
// the trimmed input is empty or another send is in flight.
func (c *Chat) Send(ctx context.Context, input string) (bool, error) {
	text := strings.TrimSpace(input)

	c.mu.Lock()
	if text == "" || c.sending {
		c.mu.Unlock()
		return false, nil
	}
	c.mu.Unlock()

	id, err := Gate(c.deps.Session)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return false, nil
	}
	c.sending = true
	c.transcript = append(c.transcript, models.NewChatMessage(models.RoleUser, text, c.deps.now()))
	sessionID := c.sessionID
	c.mu.Unlock()

	reply, err := c.deps.Backend.SendChat(ctx, api.ChatRequest{
		UserID:    id.UserID,
		Message:   text,
		SessionID: sessionID,
	})
	if err != nil {
		c.deps.Log.WithError(err).WithField("session_id", sessionID).Warn("chat send failed")
		reply = ApologyMessage
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, models.NewChatMessage(models.RoleAssistant, reply, c.deps.now()))
	c.sending = false
	c.mu.Unlock()
	return true, nil
}

func (c *Chat) Transcript() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ChatMessage(nil), c.transcript...)
}

func (c *Chat) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

func (c *Chat) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Suggestions are offered until the user has sent a first message.
func (c *Chat) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.transcript) > 1 {
		return nil
	}
	return append([]string(nil), suggestedQuestions...)
}

func (c *Chat) QuickActions() []string {
	return append([]string(nil), quickActions...)
}
