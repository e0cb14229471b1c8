package screens

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/models"
)

func enterChat(t *testing.T, env *testEnv) *Chat {
	t.Helper()
	chat := NewChat(env.deps)
	if err := chat.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	return chat
}

func TestChatEnterSeedsWelcome(t *testing.T) {
	env := newTestEnv(t, true)
	chat := enterChat(t, env)

	transcript := chat.Transcript()
	if len(transcript) != 1 || transcript[0].Role != models.RoleAssistant || transcript[0].Content != WelcomeMessage {
		t.Fatalf("unexpected transcript %+v", transcript)
	}
	if chat.SessionID() != "session_fixed" {
		t.Fatalf("unexpected session id %s", chat.SessionID())
	}
	if len(chat.Suggestions()) != 4 {
		t.Fatalf("expected four suggestions")
	}
}

func TestChatSendSuccess(t *testing.T) {
	env := newTestEnv(t, true)
	chat := enterChat(t, env)

	sent, err := chat.Send(context.Background(), "  How can I save money?  ")
	if err != nil || !sent {
		t.Fatalf("Send: sent=%v err=%v", sent, err)
	}

	transcript := chat.Transcript()
	if len(transcript) != 3 {
		t.Fatalf("expected welcome + user + assistant, got %d turns", len(transcript))
	}
	if transcript[1].Role != models.RoleUser || transcript[1].Content != "How can I save money?" {
		t.Fatalf("unexpected user turn %+v", transcript[1])
	}
	if transcript[2].Role != models.RoleAssistant || transcript[2].Content != "reply to How can I save money?" {
		t.Fatalf("unexpected assistant turn %+v", transcript[2])
	}
	if _, err := time.Parse(time.RFC3339Nano, transcript[1].Timestamp); err != nil {
		t.Fatalf("expected ISO-8601 timestamp, got %s", transcript[1].Timestamp)
	}

	req := env.backend.chatReqs[0]
	if req.UserID != testIdentity.UserID || req.SessionID != "session_fixed" {
		t.Fatalf("unexpected request %+v", req)
	}
	if chat.Suggestions() != nil {
		t.Fatalf("suggestions should disappear after the first message")
	}
}

func TestChatSendFailureAppendsApology(t *testing.T) {
	env := newTestEnv(t, true)
	env.backend.sendChat = func(context.Context, api.ChatRequest) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}
	chat := enterChat(t, env)

	for i := 0; i < 2; i++ {
		if sent, err := chat.Send(context.Background(), "hello"); err != nil || !sent {
			t.Fatalf("Send: sent=%v err=%v", sent, err)
		}
	}

	transcript := chat.Transcript()
	if len(transcript) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(transcript))
	}
	if transcript[2].Content != ApologyMessage || transcript[4].Content != ApologyMessage {
		t.Fatalf("expected the fixed apology, got %q and %q", transcript[2].Content, transcript[4].Content)
	}
}

func TestChatSendIgnoresEmptyInput(t *testing.T) {
	env := newTestEnv(t, true)
	chat := enterChat(t, env)

	sent, err := chat.Send(context.Background(), "   ")
	if err != nil || sent {
		t.Fatalf("expected no-op, got sent=%v err=%v", sent, err)
	}
	if env.backend.count("chat") != 0 || len(chat.Transcript()) != 1 {
		t.Fatalf("empty input must not change anything")
	}
}

func TestChatSendWhileInFlightIsNoop(t *testing.T) {
	env := newTestEnv(t, true)
	started := make(chan struct{})
	release := make(chan struct{})
	env.backend.sendChat = func(context.Context, api.ChatRequest) (string, error) {
		close(started)
		<-release
		return "done", nil
	}
	chat := enterChat(t, env)

	done := make(chan struct{})
	go func() {
		defer close(done)
		chat.Send(context.Background(), "first")
	}()
	<-started

	if !chat.Busy() {
		t.Fatalf("expected busy while the first send is outstanding")
	}
	sent, err := chat.Send(context.Background(), "second")
	if err != nil || sent {
		t.Fatalf("expected no-op while in flight, got sent=%v err=%v", sent, err)
	}

	close(release)
	<-done

	if n := env.backend.count("chat"); n != 1 {
		t.Fatalf("expected one request, got %d", n)
	}
	if len(chat.Transcript()) != 3 {
		t.Fatalf("expected welcome + user + assistant, got %d", len(chat.Transcript()))
	}
	if chat.Busy() {
		t.Fatalf("expected idle after the reply")
	}
}

func TestChatSendAfterLogoutRedirects(t *testing.T) {
	env := newTestEnv(t, true)
	chat := enterChat(t, env)
	if err := env.session.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	_, err := chat.Send(context.Background(), "hello")
	var redirect *Redirect
	if !errors.As(err, &redirect) {
		t.Fatalf("expected redirect, got %v", err)
	}
	if env.backend.count("chat") != 0 {
		t.Fatalf("no request may be sent without a session")
	}
}

func TestChatQuickActions(t *testing.T) {
	env := newTestEnv(t, true)
	chat := enterChat(t, env)
	if got := chat.QuickActions(); len(got) != 3 || got[0] != "Show me my investment options" {
		t.Fatalf("unexpected quick actions %v", got)
	}
}
