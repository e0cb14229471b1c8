package screens

import (
	"context"
	"fmt"
	"sync"

	"github.com/dyike/NamaaGo/internal/models"
)

const fallbackEmail = "user@example.com"

// Profile shows the account summary and the device settings.
type Profile struct {
	deps Deps

	mu       sync.Mutex
	identity models.Identity
	snapshot *models.DashboardData
	prefs    models.Preferences
	lastErr  error
}

func NewProfile(deps Deps) *Profile {
	return &Profile{deps: deps, prefs: models.DefaultPreferences()}
}

func (p *Profile) Enter(ctx context.Context) error {
	id, err := Gate(p.deps.Session)
	if err != nil {
		return err
	}

	prefs, err := p.deps.Preferences.Load()
	if err != nil {
		p.deps.Log.WithError(err).Warn("load preferences")
	}

	p.mu.Lock()
	p.identity = id
	p.prefs = prefs
	p.mu.Unlock()

	data, err := p.deps.Snapshots.Get(ctx, id.UserID, p.deps.Backend.Dashboard)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.deps.Log.WithError(err).WithField("user_id", id.UserID).Warn("load profile summary")
		p.lastErr = &FetchError{Screen: RouteProfile, Err: err}
		return p.lastErr
	}
	p.snapshot = data
	p.lastErr = nil
	return nil
}

func (p *Profile) Snapshot() *models.DashboardData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Profile) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Profile) Email() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identity.UserEmail == "" {
		return fallbackEmail
	}
	return p.identity.UserEmail
}

func (p *Profile) Preferences() models.Preferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs
}

func (p *Profile) SetNotifications(enabled bool) error {
	return p.updatePreferences(func(prefs *models.Preferences) {
		prefs.Notifications = enabled
	})
}

func (p *Profile) SetLanguage(lang models.Language) error {
	if !lang.Valid() {
		return &ValidationError{Field: "language", Message: fmt.Sprintf("Unsupported language %q", lang)}
	}
	return p.updatePreferences(func(prefs *models.Preferences) {
		prefs.Language = lang
	})
}

func (p *Profile) updatePreferences(apply func(*models.Preferences)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.prefs
	apply(&next)
	if err := p.deps.Preferences.Save(next); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	p.prefs = next
	return nil
}

// Logout drops the session identity and the cached snapshot of its user.
func (p *Profile) Logout() (Route, error) {
	p.mu.Lock()
	userID := p.identity.UserID
	p.mu.Unlock()
	if userID == "" {
		if id, ok := p.deps.Session.Current(); ok {
			userID = id.UserID
		}
	}

	if err := p.deps.Session.Clear(); err != nil {
		return "", fmt.Errorf("logout: %w", err)
	}
	if userID != "" {
		p.deps.Snapshots.Invalidate(userID)
	}

	p.mu.Lock()
	p.identity = models.Identity{}
	p.snapshot = nil
	p.mu.Unlock()

	p.deps.Log.WithField("user_id", userID).Info("logged out")
	return RouteRegister, nil
}
