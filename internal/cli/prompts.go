package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/shopspring/decimal"

	"github.com/dyike/NamaaGo/internal/models"
	"github.com/dyike/NamaaGo/internal/screens"
)

const (
	// routeMenu returns to the main menu.
	routeMenu screens.Route = "menu"
	// routeExit leaves the interactive navigator.
	routeExit screens.Route = "exit"
)

var menuEntries = []struct {
	label string
	route screens.Route
}{
	{"📊 Dashboard", screens.RouteDashboard},
	{"💬 Chat with Nama'a", screens.RouteChat},
	{"🏦 Connect a bank account", screens.RouteConnectBank},
	{"💡 Investment advice", screens.RouteInvest},
	{"🕘 Chat history", screens.RouteHistory},
	{"👤 Profile & settings", screens.RouteProfile},
	{"🚪 Exit", routeExit},
}

// PromptForMenu asks which screen to open next
func PromptForMenu() (screens.Route, error) {
	options := make([]string, len(menuEntries))
	for i, e := range menuEntries {
		options[i] = e.label
	}

	var choice string
	prompt := &survey.Select{
		Message: "Where would you like to go?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	for _, e := range menuEntries {
		if e.label == choice {
			return e.route, nil
		}
	}
	return routeExit, nil
}

// PromptForRegistration collects the registration form
func PromptForRegistration() (screens.RegistrationForm, error) {
	answers := struct {
		FirstName string `survey:"firstName"`
		LastName  string `survey:"lastName"`
		Email     string `survey:"email"`
		Phone     string `survey:"phone"`
	}{}

	questions := []*survey.Question{
		{
			Name:     "firstName",
			Prompt:   &survey.Input{Message: "First name:"},
			Validate: fieldRule(func(v string) screens.RegistrationForm { return screens.RegistrationForm{FirstName: v, LastName: "-", Email: "a@b.c"} }),
		},
		{
			Name:     "lastName",
			Prompt:   &survey.Input{Message: "Last name:"},
			Validate: fieldRule(func(v string) screens.RegistrationForm { return screens.RegistrationForm{FirstName: "-", LastName: v, Email: "a@b.c"} }),
		},
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: fieldRule(func(v string) screens.RegistrationForm { return screens.RegistrationForm{FirstName: "-", LastName: "-", Email: v} }),
		},
		{
			Name:   "phone",
			Prompt: &survey.Input{Message: "Phone (optional):", Help: "Leave empty to skip"},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return screens.RegistrationForm{}, err
	}
	return screens.RegistrationForm{
		FirstName: answers.FirstName,
		LastName:  answers.LastName,
		Email:     answers.Email,
		Phone:     answers.Phone,
	}, nil
}

// fieldRule checks one field with the registration rules, filling the
// others with valid values.
func fieldRule(build func(string) screens.RegistrationForm) survey.Validator {
	return func(val interface{}) error {
		str, _ := val.(string)
		return build(str).Validate()
	}
}

const skipBankOption = "⏭  Skip for now"

// PromptForProvider asks for a bank. skip is true when the user chose to
// link later.
func PromptForProvider(providers []models.BankProvider) (id string, skip bool, err error) {
	options, ids := providerChoices(providers)

	var choice int
	prompt := &survey.Select{
		Message:  "Select your bank:",
		Options:  options,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", false, err
	}
	if choice >= len(ids) {
		return "", true, nil
	}
	return ids[choice], false, nil
}

// providerChoices lists the prompt options with the provider id at the
// same index. The trailing skip option has no id.
func providerChoices(providers []models.BankProvider) ([]string, []string) {
	options := make([]string, 0, len(providers)+1)
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		label := p.Label()
		if !p.Available() {
			label += " (unavailable)"
		}
		options = append(options, label)
		ids = append(ids, p.ProviderID)
	}
	return append(options, skipBankOption), ids
}

// PromptForChatInput reads one chat message
func PromptForChatInput() (string, error) {
	var input string
	prompt := &survey.Input{
		Message: "You:",
		Help:    "Type a number to use a suggestion, or /back to return to the menu",
	}
	if err := survey.AskOne(prompt, &input); err != nil {
		return "", err
	}
	return input, nil
}

// PromptForAction offers a fixed list of screen actions
func PromptForAction(message string, actions []string) (string, error) {
	var choice string
	prompt := &survey.Select{
		Message: message,
		Options: actions,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

const allAccountsOption = "All accounts"

// PromptForAccount returns an empty id for all accounts
func PromptForAccount(accounts []models.Account) (string, error) {
	options, ids := accountChoices(accounts)

	var choice int
	prompt := &survey.Select{
		Message: "Show which account?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return ids[choice], nil
}

func accountChoices(accounts []models.Account) ([]string, []string) {
	options := []string{allAccountsOption}
	ids := []string{""}
	for _, a := range accounts {
		options = append(options, fmt.Sprintf("%s (%s)", a.AccountName, a.BankName))
		ids = append(ids, a.ID.String())
	}
	return options, ids
}

func PromptForCategory(categories []models.CategorySpending) (string, error) {
	if len(categories) == 0 {
		return "", errors.New("no spending categories to explore")
	}
	options := make([]string, len(categories))
	for i, c := range categories {
		options[i] = c.Category
	}
	return PromptForAction("Find alternatives for which category?", options)
}

func PromptForLanguage(current models.Language) (models.Language, error) {
	labels := map[string]models.Language{
		"English":           models.LanguageEnglish,
		"العربية":           models.LanguageArabic,
		"English / العربية": models.LanguageBoth,
	}
	options := []string{"English", "العربية", "English / العربية"}
	def := options[0]
	for label, lang := range labels {
		if lang == current {
			def = label
		}
	}

	var choice string
	prompt := &survey.Select{
		Message: "Language:",
		Options: options,
		Default: def,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return labels[choice], nil
}

func PromptForConfirm(message string, def bool) (bool, error) {
	ok := def
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// PromptForAmount asks for a positive investment amount
func PromptForAmount(defaultCurrency string) (decimal.Decimal, error) {
	var raw string
	prompt := &survey.Input{
		Message: fmt.Sprintf("How much would you like to invest (%s)?", defaultCurrency),
		Help:    "Digits with an optional decimal point, e.g. 25,000",
	}
	err := survey.AskOne(prompt, &raw, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		_, err := screens.ParseAmount(str)
		return err
	}))
	if err != nil {
		return decimal.Zero, err
	}
	return screens.ParseAmount(raw)
}

func PromptForRisk() (models.RiskTolerance, error) {
	options := []string{
		string(models.RiskConservative),
		string(models.RiskModerate),
		string(models.RiskAggressive),
	}

	var choice string
	prompt := &survey.Select{
		Message: "Risk tolerance:",
		Options: options,
		Default: string(models.RiskModerate),
		Description: func(value string, _ int) string {
			switch models.RiskTolerance(value) {
			case models.RiskConservative:
				return "capital preservation first"
			case models.RiskAggressive:
				return "higher growth, higher swings"
			}
			return "balanced growth"
		},
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return models.RiskTolerance(strings.TrimSpace(choice)), nil
}
