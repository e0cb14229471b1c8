package session

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/models"
)

// Context is the session object handed to every screen. Establish and
// Clear replace or drop the whole identity under one lock.
type Context struct {
	mu    sync.Mutex
	store *Store
	log   logrus.FieldLogger

	expiresAt time.Time
	listeners []func(models.Identity, bool)
}

func NewContext(store *Store, log logrus.FieldLogger) *Context {
	return &Context{store: store, log: log}
}

// Current reads the identity from the store. The second value is false
// when no complete, unexpired identity exists.
func (c *Context) Current() (models.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, expiresAt, err := c.store.Load()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.log.WithError(err).Warn("discarding stored session")
		}
		c.expiresAt = time.Time{}
		return models.Identity{}, false
	}
	c.expiresAt = expiresAt
	return id, true
}

// ExpiresAt is the expiry seen by the last successful Current or Establish.
func (c *Context) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}

// Establish stores a complete identity, replacing any previous one.
func (c *Context) Establish(id models.Identity) error {
	c.mu.Lock()
	expiresAt, err := c.store.Save(id)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.expiresAt = expiresAt
	listeners := append([]func(models.Identity, bool){}, c.listeners...)
	c.mu.Unlock()

	c.log.WithField("user_id", id.UserID).Info("session established")
	for _, fn := range listeners {
		fn(id, true)
	}
	return nil
}

// Clear drops all three values together.
func (c *Context) Clear() error {
	c.mu.Lock()
	if err := c.store.Remove(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.expiresAt = time.Time{}
	listeners := append([]func(models.Identity, bool){}, c.listeners...)
	c.mu.Unlock()

	c.log.Info("session cleared")
	for _, fn := range listeners {
		fn(models.Identity{}, false)
	}
	return nil
}

// OnChange registers a callback run after every Establish or Clear made
// through this Context.
func (c *Context) OnChange(fn func(id models.Identity, present bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
