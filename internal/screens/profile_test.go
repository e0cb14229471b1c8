package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/dyike/NamaaGo/internal/models"
)

func TestProfileLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	profile := NewProfile(env.deps)
	if err := profile.Enter(ctx); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if profile.Email() != testIdentity.UserEmail {
		t.Fatalf("unexpected email %s", profile.Email())
	}

	route, err := profile.Logout()
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if route != RouteRegister {
		t.Fatalf("expected register, got %s", route)
	}
	if _, ok := env.session.Current(); ok {
		t.Fatalf("expected no identity after logout")
	}

	before := env.backend.total()
	var redirect *Redirect
	if err := NewDashboard(env.deps).Enter(ctx); !errors.As(err, &redirect) {
		t.Fatalf("expected redirect after logout, got %v", err)
	}
	if env.backend.total() != before {
		t.Fatalf("no request may follow a logout redirect")
	}
}

func TestProfileLogoutDropsCachedSnapshot(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	if err := NewProfile(env.deps).Enter(ctx); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if _, err := NewProfile(env.deps).Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := env.session.Establish(testIdentity); err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if err := NewDashboard(env.deps).Enter(ctx); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if n := env.backend.count("dashboard"); n != 2 {
		t.Fatalf("expected a fresh fetch after logout, got %d calls", n)
	}
}

func TestProfilePreferences(t *testing.T) {
	env := newTestEnv(t, true)
	profile := NewProfile(env.deps)
	if err := profile.Enter(context.Background()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if got := profile.Preferences(); got != models.DefaultPreferences() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	if err := profile.SetNotifications(false); err != nil {
		t.Fatalf("SetNotifications: %v", err)
	}
	if err := profile.SetLanguage(models.LanguageBoth); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	var verr *ValidationError
	if err := profile.SetLanguage("fr"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	reloaded := NewProfile(env.deps)
	if err := reloaded.Enter(context.Background()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	want := models.Preferences{Notifications: false, Language: models.LanguageBoth}
	if got := reloaded.Preferences(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
