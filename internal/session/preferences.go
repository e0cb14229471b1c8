package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dyike/NamaaGo/internal/models"
)

// PreferencesStore keeps the profile settings that only live on this device.
type PreferencesStore struct {
	mu   sync.Mutex
	path string
}

func NewPreferencesStore(path string) *PreferencesStore {
	return &PreferencesStore{path: path}
}

// Load returns the defaults when nothing has been saved yet.
func (p *PreferencesStore) Load() (models.Preferences, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefs := models.DefaultPreferences()
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("read preferences: %w", err)
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return models.DefaultPreferences(), fmt.Errorf("parse preferences: %w", err)
	}
	if !prefs.Language.Valid() {
		prefs.Language = models.LanguageEnglish
	}
	return prefs, nil
}

func (p *PreferencesStore) Save(prefs models.Preferences) error {
	if !prefs.Language.Valid() {
		return fmt.Errorf("unsupported language %q", prefs.Language)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := writeJSONFile(p.path, prefs); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
