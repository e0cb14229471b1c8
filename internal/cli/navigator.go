package cli

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/dyike/NamaaGo/internal/display"
	"github.com/dyike/NamaaGo/internal/models"
	"github.com/dyike/NamaaGo/internal/screens"
)

type flow func(ctx context.Context, a *app) (screens.Route, error)

var flows = map[screens.Route]flow{
	screens.RouteRegister:    runRegister,
	screens.RouteConnectBank: runLink,
	screens.RouteChat:        runChat,
	screens.RouteDashboard:   runDashboard,
	screens.RouteProfile:     runProfile,
	screens.RouteInvest:      runInvest,
	screens.RouteHistory:     runHistory,
}

// navigator moves between screens until the user exits. A logout made
// from another terminal sends it back to registration.
type navigator struct {
	app       *app
	signedOut atomic.Bool
}

func newNavigator(a *app) *navigator {
	return &navigator{app: a}
}

func (n *navigator) run(ctx context.Context) error {
	DisplayWelcomeBanner(n.app.out)

	err := n.app.session.Watch(ctx, func(_ models.Identity, present bool) {
		if !present {
			n.signedOut.Store(true)
		}
	})
	if err != nil {
		n.app.log.WithError(err).Warn("session watcher unavailable")
	}

	route := screens.RouteDashboard
	if _, ok := n.app.session.Current(); !ok {
		route = screens.RouteRegister
	}

	for {
		route = n.regate(route)

		switch route {
		case routeExit:
			displayGoodbye(n.app.out)
			return nil
		case routeMenu:
			next, err := PromptForMenu()
			if err != nil {
				return n.finish(err)
			}
			route = next
			continue
		}

		run, ok := flows[route]
		if !ok {
			route = routeMenu
			continue
		}

		next, err := run(ctx, n.app)
		if err != nil {
			var redirect *screens.Redirect
			switch {
			case errors.As(err, &redirect):
				next = redirect.To
			case interrupted(err):
				return n.finish(err)
			default:
				n.app.log.WithError(err).WithField("route", route).Error("screen failed")
				display.DisplayError(err, "Something went wrong")
				next = routeMenu
			}
		}
		route = next
	}
}

// regate re-checks the session after the watcher saw it disappear.
func (n *navigator) regate(route screens.Route) screens.Route {
	if !n.signedOut.Swap(false) || route == screens.RouteRegister || route == routeExit {
		return route
	}
	if _, ok := n.app.session.Current(); ok {
		return route
	}
	n.app.snapshots.Purge()
	display.DisplayWarning("You were signed out from another window.")
	return screens.RouteRegister
}

func interrupted(err error) bool {
	return errors.Is(err, terminal.InterruptErr) || errors.Is(err, context.Canceled)
}

func (n *navigator) finish(err error) error {
	if interrupted(err) {
		displayGoodbye(n.app.out)
		return nil
	}
	n.app.log.WithError(err).Error("navigator stopped")
	return err
}
