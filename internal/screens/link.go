package screens

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/models"
)

const (
	providersFallback = "Failed to load bank providers"
	connectFallback   = "Failed to connect bank"

	// The backend only needs non-empty names to open an intent.
	placeholderFirstName = "User"
	placeholderLastName  = "Name"
)

// LinkAttempt is one bank connection from intent creation to callback.
type LinkAttempt struct {
	ProviderID string
	Intent     models.LinkIntent
	State      models.LinkState
	Detail     string
	StartedAt  time.Time
}

// Link lists bank providers and drives the consent round trip.
type Link struct {
	deps Deps

	mu        sync.Mutex
	identity  models.Identity
	providers []models.BankProvider
	selected  string
	attempt   *LinkAttempt
}

func NewLink(deps Deps) *Link {
	return &Link{deps: deps}
}

// Enter checks the session and loads the full provider catalog.
func (l *Link) Enter(ctx context.Context) error {
	id, err := Gate(l.deps.Session)
	if err != nil {
		return err
	}

	providers, err := l.deps.Backend.ListProviders(ctx)
	if err != nil {
		l.deps.Log.WithError(err).Warn("load bank providers")
		return userError(err, providersFallback)
	}

	l.mu.Lock()
	l.identity = id
	l.providers = providers
	l.selected = ""
	l.attempt = nil
	l.mu.Unlock()
	return nil
}

func (l *Link) Providers() []models.BankProvider {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.BankProvider(nil), l.providers...)
}

// Select marks one provider. Only providers with an available AIS status
// can be chosen.
func (l *Link) Select(providerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range l.providers {
		if p.ProviderID != providerID {
			continue
		}
		if !p.Available() {
			return &ValidationError{Field: "provider", Message: "This bank is currently unavailable"}
		}
		l.selected = providerID
		return nil
	}
	return &ValidationError{Field: "provider", Message: "Please select a bank"}
}

func (l *Link) Selected() (models.BankProvider, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.providers {
		if p.ProviderID == l.selected {
			return p, true
		}
	}
	return models.BankProvider{}, false
}

// Connect asks the backend for a linking intent for the selected bank.
// The returned attempt is pending until Await sees the callback.
func (l *Link) Connect(ctx context.Context) (*LinkAttempt, error) {
	l.mu.Lock()
	selected := l.selected
	l.mu.Unlock()
	if selected == "" {
		return nil, &ValidationError{Field: "provider", Message: "Please select a bank"}
	}

	id, err := Gate(l.deps.Session)
	if err != nil {
		return nil, err
	}

	log := l.deps.Log.WithFields(logrus.Fields{
		"user_id":  id.UserID,
		"provider": selected,
	})

	// Callbacks from earlier attempts must not settle this one.
	l.deps.Callbacks.Reset()

	intent, err := l.deps.Backend.CreateIntent(ctx, api.CreateIntentRequest{
		CustomerUserID: id.CustomerUserID,
		FirstName:      placeholderFirstName,
		LastName:       placeholderLastName,
		Email:          id.UserEmail,
		RedirectURL:    l.deps.Callbacks.RedirectURL(),
	})
	if err != nil {
		log.WithError(err).Warn("create link intent")
		return nil, userError(err, connectFallback)
	}

	attempt := &LinkAttempt{
		ProviderID: selected,
		Intent:     *intent,
		State:      models.LinkPending,
		StartedAt:  l.deps.now(),
	}
	log.WithField("intent_id", intent.IntentID).Info("link intent created")

	l.mu.Lock()
	l.identity = id
	l.attempt = attempt
	l.mu.Unlock()
	return attempt, nil
}

// Attempt returns a copy of the latest attempt, if any.
func (l *Link) Attempt() (LinkAttempt, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attempt == nil {
		return LinkAttempt{}, false
	}
	return *l.attempt, true
}

// Await blocks until the consent flow returns to the callback route or the
// link timeout passes. A cancelled ctx leaves the attempt pending.
func (l *Link) Await(ctx context.Context) (LinkAttempt, error) {
	l.mu.Lock()
	if l.attempt == nil {
		l.mu.Unlock()
		return LinkAttempt{}, errors.New("no pending bank connection")
	}
	attempt := *l.attempt
	l.mu.Unlock()
	if attempt.State.Terminal() {
		return attempt, nil
	}

	waitCtx := ctx
	if l.deps.LinkTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.deps.LinkTimeout)
		defer cancel()
	}

	res, err := l.deps.Callbacks.Wait(waitCtx, attempt.Intent.IntentID)
	switch {
	case err == nil:
		attempt.State = res.State()
		attempt.Detail = res.Error
	case ctx.Err() != nil:
		return attempt, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		attempt.State = models.LinkExpired
		attempt.Detail = "The bank did not confirm the connection in time"
	default:
		return attempt, err
	}

	l.mu.Lock()
	l.attempt = &attempt
	userID := l.identity.UserID
	l.mu.Unlock()

	l.deps.Log.WithFields(logrus.Fields{
		"intent_id": attempt.Intent.IntentID,
		"state":     attempt.State,
	}).Info("bank connection finished")

	if attempt.State == models.LinkConfirmed && l.deps.Snapshots != nil {
		l.deps.Snapshots.Invalidate(userID)
	}
	return attempt, nil
}

// Skip leaves linking for later.
func (l *Link) Skip() Route {
	l.mu.Lock()
	if l.attempt != nil && !l.attempt.State.Terminal() {
		l.attempt.State = models.LinkSkipped
	}
	l.mu.Unlock()
	return RouteDashboard
}
