package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dyike/NamaaGo/internal/logger"
	"github.com/dyike/NamaaGo/internal/models"
)

var testIdentity = models.Identity{
	CustomerUserID: "user_0190b2",
	UserID:         "42",
	UserEmail:      "user@example.com",
}

func TestStoreSaveLoadRemove(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"), 30*24*time.Hour)

	if _, _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	expiresAt, err := store.Save(testIdentity)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	id, loadedExpiry, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if id != testIdentity {
		t.Fatalf("expected %+v, got %+v", testIdentity, id)
	}
	if !loadedExpiry.Equal(expiresAt) {
		t.Fatalf("expected expiry %s, got %s", expiresAt, loadedExpiry)
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("second Remove should be a no-op: %v", err)
	}
}

func TestStoreRejectsPartialIdentity(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"), time.Hour)
	partial := testIdentity
	partial.UserEmail = ""
	if _, err := store.Save(partial); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestStoreDropsIncompleteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"userId": "42"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewStore(path, time.Hour)
	if _, _, err := store.Load(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected incomplete file removed, stat err %v", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"), 30*24*time.Hour)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return start }

	if _, err := store.Save(testIdentity); err != nil {
		t.Fatalf("Save: %v", err)
	}

	store.now = func() time.Time { return start.Add(29 * 24 * time.Hour) }
	if _, _, err := store.Load(); err != nil {
		t.Fatalf("expected session valid on day 29: %v", err)
	}

	store.now = func() time.Time { return start.Add(30 * 24 * time.Hour) }
	if _, _, err := store.Load(); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired on day 30, got %v", err)
	}
}

func TestContextEstablishAndClear(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"), time.Hour)
	sess := NewContext(store, logger.Discard())

	var events []bool
	sess.OnChange(func(id models.Identity, present bool) {
		events = append(events, present)
	})

	if _, ok := sess.Current(); ok {
		t.Fatalf("expected no session")
	}
	if err := sess.Establish(testIdentity); err != nil {
		t.Fatalf("Establish: %v", err)
	}
	id, ok := sess.Current()
	if !ok || id != testIdentity {
		t.Fatalf("expected established identity, got %+v %v", id, ok)
	}
	if sess.ExpiresAt().IsZero() {
		t.Fatalf("expected expiry recorded")
	}

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := sess.Current(); ok {
		t.Fatalf("expected no session after clear")
	}
	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("unexpected change events %v", events)
	}
}

func TestContextWatchSeesExternalLogout(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "session.json"), time.Hour)
	sess := NewContext(store, logger.Discard())
	if err := sess.Establish(testIdentity); err != nil {
		t.Fatalf("Establish: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan bool, 4)
	if err := sess.Watch(ctx, func(id models.Identity, present bool) {
		changed <- present
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	other := NewStore(filepath.Join(dir, "session.json"), time.Hour)
	if err := other.Remove(); err != nil {
		t.Fatalf("external Remove: %v", err)
	}

	select {
	case present := <-changed:
		if present {
			t.Fatalf("expected watcher to report missing session")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on session removal")
	}
}

func TestPreferencesStore(t *testing.T) {
	prefs := NewPreferencesStore(filepath.Join(t.TempDir(), "preferences.json"))

	got, err := prefs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != models.DefaultPreferences() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	want := models.Preferences{Notifications: false, Language: models.LanguageBoth}
	if err := prefs.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = prefs.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := prefs.Save(models.Preferences{Language: "fr"}); err == nil {
		t.Fatalf("expected unsupported language rejected")
	}
}

func TestTempPatternFollowsTarget(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/session.json", ".session-*.tmp"},
		{"/data/preferences.json", ".preferences-*.tmp"},
	}
	for _, tt := range tests {
		if got := tempPattern(tt.path); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.path, tt.want, got)
		}
	}
}

func TestWriteJSONFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	prefs := NewPreferencesStore(filepath.Join(dir, "preferences.json"))
	if err := prefs.Save(models.DefaultPreferences()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "preferences.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only preferences.json, got %v", names)
	}
}
