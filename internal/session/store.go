// Package session persists the identity triple that gates every screen.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dyike/NamaaGo/internal/models"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrExpired    = errors.New("session expired")
	ErrIncomplete = errors.New("session incomplete")
)

// record is the on-disk form. All three values live in one file so a
// reader sees either the full triple or nothing.
type record struct {
	CustomerUserID string    `json:"customerUserId"`
	UserID         string    `json:"userId"`
	UserEmail      string    `json:"userEmail"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Store reads and writes the session file.
type Store struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

func NewStore(path string, ttl time.Duration) *Store {
	return &Store{path: path, ttl: ttl, now: time.Now}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored identity and its expiry. Expired and incomplete
// files are removed and reported as errors.
func (s *Store) Load() (models.Identity, time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Identity{}, time.Time{}, ErrNotFound
		}
		return models.Identity{}, time.Time{}, fmt.Errorf("read session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		_ = s.remove()
		return models.Identity{}, time.Time{}, fmt.Errorf("%w: %v", ErrIncomplete, err)
	}

	id := models.Identity{
		CustomerUserID: rec.CustomerUserID,
		UserID:         rec.UserID,
		UserEmail:      rec.UserEmail,
	}
	if !id.Complete() {
		_ = s.remove()
		return models.Identity{}, time.Time{}, ErrIncomplete
	}
	if !rec.ExpiresAt.IsZero() && !s.now().Before(rec.ExpiresAt) {
		_ = s.remove()
		return models.Identity{}, time.Time{}, ErrExpired
	}
	return id, rec.ExpiresAt, nil
}

// Save replaces the whole triple. The write goes to a temp file that is
// renamed over the target, so concurrent readers never see a mix.
func (s *Store) Save(id models.Identity) (time.Time, error) {
	if !id.Complete() {
		return time.Time{}, ErrIncomplete
	}
	expiresAt := s.now().Add(s.ttl).UTC()
	rec := record{
		CustomerUserID: id.CustomerUserID,
		UserID:         id.UserID,
		UserEmail:      id.UserEmail,
		ExpiresAt:      expiresAt,
	}
	if err := writeJSONFile(s.path, rec); err != nil {
		return time.Time{}, fmt.Errorf("save session: %w", err)
	}
	return expiresAt, nil
}

// Remove deletes the triple in a single unlink.
func (s *Store) Remove() error {
	if err := s.remove(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Store) remove() error {
	return os.Remove(s.path)
}

// writeJSONFile replaces path atomically by renaming a sibling temp file
// over it.
func writeJSONFile(path string, v any) (err error) {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, tempPattern(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// tempPattern names temp files after their target, so session.json and
// preferences.json never share a prefix.
func tempPattern(path string) string {
	base := filepath.Base(path)
	return "." + strings.TrimSuffix(base, filepath.Ext(base)) + "-*.tmp"
}
