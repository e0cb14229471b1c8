package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dyike/NamaaGo/internal/display"
	"github.com/dyike/NamaaGo/internal/models"
	"github.com/dyike/NamaaGo/internal/screens"
)

// Each flow drives one screen until the user leaves it and returns the
// route to show next. A *screens.Redirect is returned as an error.

func runRegister(ctx context.Context, a *app) (screens.Route, error) {
	a.println(display.Title("📝 Create your Nama'a account"))
	reg := screens.NewRegister(a.deps())

	for {
		form, err := PromptForRegistration()
		if err != nil {
			return "", err
		}

		route, err := reg.Submit(ctx, form)
		if err == nil {
			display.DisplaySuccess("Welcome to Nama'a, " + strings.TrimSpace(form.FirstName) + "!")
			return route, nil
		}

		var verr *screens.ValidationError
		var uerr *screens.UserError
		switch {
		case errors.As(err, &verr):
			display.DisplayWarning(verr.Message)
		case errors.As(err, &uerr):
			display.DisplayError(errors.New(uerr.Message), "Registration failed")
		default:
			return "", err
		}

		again, err := PromptForConfirm("Try again?", true)
		if err != nil || !again {
			return routeExit, err
		}
	}
}

func runLink(ctx context.Context, a *app) (screens.Route, error) {
	a.println(display.Title("🏦 Connect your bank"))
	link := screens.NewLink(a.deps())

	if err := link.Enter(ctx); err != nil {
		var uerr *screens.UserError
		if !errors.As(err, &uerr) {
			return "", err
		}
		display.DisplayError(errors.New(uerr.Message), "Bank providers")
		return screens.RouteDashboard, nil
	}

	for {
		selected, _ := link.Selected()
		a.println(display.Providers(link.Providers(), selected.ProviderID))

		id, skip, err := PromptForProvider(link.Providers())
		if err != nil {
			return "", err
		}
		if skip {
			return link.Skip(), nil
		}
		if err := link.Select(id); err != nil {
			display.DisplayWarning(err.Error())
			continue
		}

		if err := a.callbacks.Start(ctx); err != nil {
			display.DisplayError(err, "Bank callback listener")
			return screens.RouteDashboard, nil
		}

		attempt, err := link.Connect(ctx)
		if err != nil {
			var verr *screens.ValidationError
			var uerr *screens.UserError
			switch {
			case errors.As(err, &verr):
				display.DisplayWarning(verr.Message)
				continue
			case errors.As(err, &uerr):
				display.DisplayError(errors.New(uerr.Message), "Bank connection")
			default:
				return "", err
			}
		} else {
			a.println(display.LinkStatus(*attempt))
			display.DisplayInfo(fmt.Sprintf("Waiting up to %s for the bank (Ctrl+C to stop)", a.cfg.LinkTimeout))

			result, err := link.Await(ctx)
			if err != nil {
				return "", err
			}
			a.println(display.LinkStatus(result))
			if result.State == models.LinkConfirmed {
				return screens.RouteDashboard, nil
			}
		}

		again, err := PromptForConfirm("Try another bank?", true)
		if err != nil {
			return "", err
		}
		if !again {
			return link.Skip(), nil
		}
	}
}

func runChat(ctx context.Context, a *app) (screens.Route, error) {
	a.println(display.Title("💬 Nama'a"))
	chat := screens.NewChat(a.deps())
	if err := chat.Enter(); err != nil {
		return "", err
	}
	a.println(display.Transcript(chat.Transcript()))

	for {
		picks := append(chat.Suggestions(), chat.QuickActions()...)
		for i, s := range picks {
			a.println(fmt.Sprintf("  %d. %s", i+1, s))
		}

		input, err := PromptForChatInput()
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)
		if input == "/back" || input == "/exit" {
			return routeMenu, nil
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(picks) {
			input = picks[n-1]
		}

		before := len(chat.Transcript())
		sent, err := chat.Send(ctx, input)
		if err != nil {
			return "", err
		}
		if !sent {
			continue
		}
		a.println(display.Transcript(chat.Transcript()[before:]))
	}
}

const (
	actionRefresh      = "🔄 Refresh"
	actionAccount      = "🏦 Choose account"
	actionAlternatives = "💡 Cheaper alternatives for a category"
	actionBack         = "↩  Back to menu"
)

func runDashboard(ctx context.Context, a *app) (screens.Route, error) {
	dash := screens.NewDashboard(a.deps())
	err := dash.Enter(ctx)

	for {
		if err != nil {
			var ferr *screens.FetchError
			if !errors.As(err, &ferr) {
				return "", err
			}
			display.DisplayError(ferr.Err, "Could not load your dashboard, choose Refresh to retry")
		}

		a.println(display.Title("📊 Dashboard"))
		view := display.DashboardView{
			Data:   dash.Snapshot(),
			Top:    dash.TopCategories(),
			Slices: dash.ChartSlices(),
		}
		if acc, ok := dash.SelectedAccount(); ok {
			view.Selected = &acc
		}
		a.println(display.Dashboard(view, a.money))

		action, perr := PromptForAction("What next?", []string{actionRefresh, actionAccount, actionAlternatives, actionBack})
		if perr != nil {
			return "", perr
		}

		err = nil
		switch action {
		case actionRefresh:
			display.DisplayInfo("Refreshing…")
			err = dash.Refresh(ctx)
		case actionAccount:
			var accounts []models.Account
			if snap := dash.Snapshot(); snap != nil {
				accounts = snap.Accounts
			}
			id, perr := PromptForAccount(accounts)
			if perr != nil {
				return "", perr
			}
			if serr := dash.SelectAccount(id); serr != nil {
				display.DisplayWarning(serr.Error())
			}
		case actionAlternatives:
			category, perr := PromptForCategory(dash.TopCategories())
			if perr != nil {
				display.DisplayWarning(perr.Error())
				continue
			}
			text, aerr := dash.Alternatives(ctx, category)
			var redirect *screens.Redirect
			switch {
			case errors.As(aerr, &redirect):
				return "", aerr
			case aerr != nil:
				display.DisplayError(aerr, "Alternatives for "+category)
			default:
				a.println(display.Alert(text))
			}
		default:
			return routeMenu, nil
		}
	}
}

const (
	actionNotifications = "🔔 Toggle notifications"
	actionLanguage      = "🌐 Language"
	actionLogout        = "🚪 Log out"
)

func runProfile(ctx context.Context, a *app) (screens.Route, error) {
	profile := screens.NewProfile(a.deps())
	if err := profile.Enter(ctx); err != nil {
		var ferr *screens.FetchError
		if !errors.As(err, &ferr) {
			return "", err
		}
		display.DisplayError(ferr.Err, "Could not load your account summary")
	}

	for {
		a.println(display.Title("👤 Profile"))
		a.println(display.Profile(profile.Email(), profile.Snapshot(), profile.Preferences(), a.money))

		action, err := PromptForAction("Settings", []string{actionNotifications, actionLanguage, actionLogout, actionBack})
		if err != nil {
			return "", err
		}

		switch action {
		case actionNotifications:
			if err := profile.SetNotifications(!profile.Preferences().Notifications); err != nil {
				display.DisplayError(err, "Settings")
			}
		case actionLanguage:
			lang, err := PromptForLanguage(profile.Preferences().Language)
			if err != nil {
				return "", err
			}
			if err := profile.SetLanguage(lang); err != nil {
				display.DisplayError(err, "Settings")
			}
		case actionLogout:
			ok, err := PromptForConfirm("Log out of Nama'a?", false)
			if err != nil {
				return "", err
			}
			if !ok {
				continue
			}
			route, err := profile.Logout()
			if err != nil {
				return "", err
			}
			display.DisplaySuccess("Logged out")
			return route, nil
		default:
			return routeMenu, nil
		}
	}
}

func runInvest(ctx context.Context, a *app) (screens.Route, error) {
	a.println(display.Title("💡 Investment advice"))
	invest := screens.NewInvest(a.deps())
	if err := invest.Enter(); err != nil {
		return "", err
	}

	amount, err := PromptForAmount(a.cfg.DefaultCurrency)
	if err != nil {
		return "", err
	}
	risk, err := PromptForRisk()
	if err != nil {
		return "", err
	}

	display.DisplayInfo("Asking Nama'a…")
	advice, err := invest.Advise(ctx, amount, risk)
	if err != nil {
		var uerr *screens.UserError
		if errors.As(err, &uerr) {
			display.DisplayError(errors.New(uerr.Message), "Investment advice")
			return routeMenu, nil
		}
		return "", err
	}
	a.println(display.Advice(advice, a.money))
	return routeMenu, nil
}

func runHistory(ctx context.Context, a *app) (screens.Route, error) {
	a.println(display.Title("🕘 Chat history"))
	history := screens.NewHistory(a.deps())
	if err := history.Enter(ctx); err != nil {
		var ferr *screens.FetchError
		if !errors.As(err, &ferr) {
			return "", err
		}
		display.DisplayError(ferr.Err, "Could not load your conversations")
		return routeMenu, nil
	}
	a.println(display.Sessions(history.Sessions()))
	return routeMenu, nil
}
