// Package screens holds the state and request/response contract of each
// screen: registration, bank linking, chat, dashboard, profile, investment
// advice and chat history. Rendering lives in internal/display and input
// handling in internal/cli.
package screens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/cache"
	"github.com/dyike/NamaaGo/internal/callback"
	"github.com/dyike/NamaaGo/internal/models"
)

// Route names a screen the navigator can show.
type Route string

const (
	RouteRegister    Route = "register"
	RouteConnectBank Route = "connect-bank"
	RouteDashboard   Route = "dashboard"
	RouteChat        Route = "chat"
	RouteProfile     Route = "profile"
	RouteInvest      Route = "invest"
	RouteHistory     Route = "history"
)

// Session is the identity owner passed to every screen.
type Session interface {
	Current() (models.Identity, bool)
	Establish(id models.Identity) error
	Clear() error
}

// PreferencesStore keeps the profile settings.
type PreferencesStore interface {
	Load() (models.Preferences, error)
	Save(models.Preferences) error
}

// CallbackWaiter receives the consent redirect for a linking intent.
type CallbackWaiter interface {
	RedirectURL() string
	Reset()
	Wait(ctx context.Context, intentID string) (callback.Result, error)
}

// Deps is what every screen is built from.
type Deps struct {
	Backend     api.Backend
	Session     Session
	Snapshots   *cache.SnapshotCache
	Preferences PreferencesStore
	Callbacks   CallbackWaiter
	IDs         IDGenerator
	Log         logrus.FieldLogger
	Now         func() time.Time
	LinkTimeout time.Duration
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) ids() IDGenerator {
	if d.IDs != nil {
		return d.IDs
	}
	return UUIDGenerator{}
}

// ErrNoSession is wrapped by every Redirect issued by the gate.
var ErrNoSession = errors.New("no session identity")

// Redirect tells the navigator to leave the current screen.
type Redirect struct {
	To Route
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect to %s", r.To)
}

func (r *Redirect) Unwrap() error {
	return ErrNoSession
}

// Gate is the entry check of every screen except registration. When the
// identity is missing it returns a Redirect to registration and the caller
// must not issue any request.
func Gate(sess Session) (models.Identity, error) {
	id, ok := sess.Current()
	if !ok {
		return models.Identity{}, &Redirect{To: RouteRegister}
	}
	return id, nil
}

// ValidationError is a local input problem. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserError is a failed request whose message is safe to show: the
// backend's own error text, or a fixed fallback.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func userError(err error, fallback string) *UserError {
	return &UserError{Message: api.Message(err, fallback), Err: err}
}

// FetchError is a failed read on a screen that keeps showing its previous
// data. The caller may offer a retry.
type FetchError struct {
	Screen Route
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Screen, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
