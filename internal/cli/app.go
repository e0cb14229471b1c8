package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/cache"
	"github.com/dyike/NamaaGo/internal/callback"
	"github.com/dyike/NamaaGo/internal/config"
	"github.com/dyike/NamaaGo/internal/display"
	"github.com/dyike/NamaaGo/internal/logger"
	"github.com/dyike/NamaaGo/internal/screens"
	"github.com/dyike/NamaaGo/internal/session"
)

// app wires the shared collaborators every screen is built from.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	closer io.Closer
	out    io.Writer

	session   *session.Context
	prefs     *session.PreferencesStore
	backend   *api.Client
	snapshots *cache.SnapshotCache
	callbacks *callback.Server
	money     *display.Money
}

func newApp(cfg *config.Config, out io.Writer) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	log, closer := logger.New(cfg)
	store := session.NewStore(cfg.SessionPath(), cfg.SessionTTL)

	return &app{
		cfg:       cfg,
		log:       log,
		closer:    closer,
		out:       out,
		session:   session.NewContext(store, log),
		prefs:     session.NewPreferencesStore(cfg.PreferencesPath()),
		backend:   api.NewClient(cfg, log),
		snapshots: cache.NewSnapshotCache(cfg.CacheTTL, cfg.CacheEnabled, log),
		callbacks: callback.NewServer(cfg.CallbackAddr, log),
		money:     display.NewMoney(cfg.Locale, cfg.DefaultCurrency),
	}, nil
}

func (a *app) deps() screens.Deps {
	return screens.Deps{
		Backend:     a.backend,
		Session:     a.session,
		Snapshots:   a.snapshots,
		Preferences: a.prefs,
		Callbacks:   a.callbacks,
		Log:         a.log,
		LinkTimeout: a.cfg.LinkTimeout,
	}
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *app) Close() error {
	return a.closer.Close()
}
