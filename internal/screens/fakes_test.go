package screens

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/cache"
	"github.com/dyike/NamaaGo/internal/callback"
	"github.com/dyike/NamaaGo/internal/logger"
	"github.com/dyike/NamaaGo/internal/models"
	"github.com/dyike/NamaaGo/internal/session"
)

var testIdentity = models.Identity{
	CustomerUserID: "user_fixed",
	UserID:         "42",
	UserEmail:      "user@example.com",
}

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	registerReqs []api.RegisterRequest
	intentReqs   []api.CreateIntentRequest
	chatReqs     []api.ChatRequest

	register     func(api.RegisterRequest) (*api.RegisterResponse, error)
	providers    []models.BankProvider
	providersErr error
	intent       *models.LinkIntent
	intentErr    error
	sendChat     func(ctx context.Context, req api.ChatRequest) (string, error)
	dashboard    func(userID string) (*models.DashboardData, error)
	alternatives []models.Alternative
	sessions     []models.ChatSessionSummary
	advice       *models.InvestmentAdvice
	adviceErr    error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) Register(_ context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	f.record("register")
	f.mu.Lock()
	f.registerReqs = append(f.registerReqs, req)
	f.mu.Unlock()
	if f.register != nil {
		return f.register(req)
	}
	return &api.RegisterResponse{Success: true, UserID: "42"}, nil
}

func (f *fakeBackend) ListProviders(context.Context) ([]models.BankProvider, error) {
	f.record("providers")
	return f.providers, f.providersErr
}

func (f *fakeBackend) CreateIntent(_ context.Context, req api.CreateIntentRequest) (*models.LinkIntent, error) {
	f.record("intent")
	f.mu.Lock()
	f.intentReqs = append(f.intentReqs, req)
	f.mu.Unlock()
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	if f.intent != nil {
		return f.intent, nil
	}
	return &models.LinkIntent{IntentID: "intent-1", ConnectURL: "https://bank.test/consent"}, nil
}

func (f *fakeBackend) SendChat(ctx context.Context, req api.ChatRequest) (string, error) {
	f.record("chat")
	f.mu.Lock()
	f.chatReqs = append(f.chatReqs, req)
	f.mu.Unlock()
	if f.sendChat != nil {
		return f.sendChat(ctx, req)
	}
	return "reply to " + req.Message, nil
}

func (f *fakeBackend) Dashboard(_ context.Context, userID string) (*models.DashboardData, error) {
	f.record("dashboard")
	if f.dashboard != nil {
		return f.dashboard(userID)
	}
	return &models.DashboardData{}, nil
}

func (f *fakeBackend) Alternatives(_ context.Context, _, _ string) ([]models.Alternative, error) {
	f.record("alternatives")
	return f.alternatives, nil
}

func (f *fakeBackend) ChatSessions(context.Context, string) ([]models.ChatSessionSummary, error) {
	f.record("sessions")
	return f.sessions, nil
}

func (f *fakeBackend) InvestmentAdvice(context.Context, api.InvestmentRequest) (*models.InvestmentAdvice, error) {
	f.record("advice")
	return f.advice, f.adviceErr
}

type fakeCallbacks struct {
	redirect string
	results  chan callback.Result
	resets   int
}

func newFakeCallbacks() *fakeCallbacks {
	return &fakeCallbacks{
		redirect: "http://127.0.0.1:8765/auth/callback",
		results:  make(chan callback.Result, 1),
	}
}

func (f *fakeCallbacks) RedirectURL() string { return f.redirect }

func (f *fakeCallbacks) Reset() {
	f.resets++
	select {
	case <-f.results:
	default:
	}
}

func (f *fakeCallbacks) Wait(ctx context.Context, _ string) (callback.Result, error) {
	select {
	case res := <-f.results:
		return res, nil
	case <-ctx.Done():
		return callback.Result{}, ctx.Err()
	}
}

type fixedIDs struct{}

func (fixedIDs) CustomerUserID() string { return "user_fixed" }
func (fixedIDs) ChatSessionID() string  { return "session_fixed" }

type testEnv struct {
	deps      Deps
	backend   *fakeBackend
	session   *session.Context
	callbacks *fakeCallbacks
}

func newTestEnv(t *testing.T, signedIn bool) *testEnv {
	t.Helper()

	dir := t.TempDir()
	log := logger.Discard()
	sess := session.NewContext(session.NewStore(filepath.Join(dir, "session.json"), time.Hour), log)
	if signedIn {
		if err := sess.Establish(testIdentity); err != nil {
			t.Fatalf("Establish: %v", err)
		}
	}

	backend := newFakeBackend()
	callbacks := newFakeCallbacks()
	return &testEnv{
		deps: Deps{
			Backend:     backend,
			Session:     sess,
			Snapshots:   cache.NewSnapshotCache(time.Minute, true, log),
			Preferences: session.NewPreferencesStore(filepath.Join(dir, "preferences.json")),
			Callbacks:   callbacks,
			IDs:         fixedIDs{},
			Log:         log,
			LinkTimeout: time.Second,
		},
		backend:   backend,
		session:   sess,
		callbacks: callbacks,
	}
}
