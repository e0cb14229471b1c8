// Package display renders screens for the terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/dyike/NamaaGo/internal/models"
	"github.com/dyike/NamaaGo/internal/screens"
)

// Output receives the Display* messages.
var Output io.Writer = os.Stdout

// DisplayError shows formatted error messages
func DisplayError(err error, context string) {
	fmt.Fprintln(Output, errorStyle.Render("❌ "+context))
	fmt.Fprintf(Output, "   %v\n", err)
}

// DisplayWarning shows formatted warning messages
func DisplayWarning(message string) {
	fmt.Fprintf(Output, "⚠️  %s\n", message)
}

// DisplaySuccess shows formatted success messages
func DisplaySuccess(message string) {
	fmt.Fprintf(Output, "✅ %s\n", message)
}

// DisplayInfo shows formatted info messages
func DisplayInfo(message string) {
	fmt.Fprintf(Output, "ℹ️  %s\n", message)
}

func Title(text string) string {
	return titleStyle.Render(text)
}

// Alert is the blocking message box used for category alternatives.
func Alert(text string) string {
	return alertStyle.Render(text)
}

// Providers lists the bank catalog with its availability badge.
func Providers(providers []models.BankProvider, selectedID string) string {
	if len(providers) == 0 {
		return panelStyle.Render("No banks are available right now.")
	}

	var b strings.Builder
	b.WriteString(strongStyle.Render("🏦 Select your bank") + "\n\n")
	for _, p := range providers {
		marker := "  "
		if p.ProviderID == selectedID {
			marker = "▶ "
		}
		badge := unavailableStyle.Render("Unavailable")
		if p.Available() {
			badge = availableStyle.Render("Available")
		}
		fmt.Fprintf(&b, "%s%-40s %s\n", marker, p.Label(), badge)
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// LinkStatus describes where a bank connection stands.
func LinkStatus(attempt screens.LinkAttempt) string {
	var line string
	switch attempt.State {
	case models.LinkPending:
		line = "⏳ Waiting for the bank to confirm the connection"
		if attempt.Intent.ConnectURL != "" {
			line += "\n\nOpen this page to authorize access:\n" + attempt.Intent.ConnectURL
		}
	case models.LinkConfirmed:
		line = "✅ Bank account connected"
	case models.LinkFailed:
		line = "❌ The bank connection was not completed"
	case models.LinkExpired:
		line = "⌛ The bank connection request expired"
	case models.LinkSkipped:
		line = "⏭  Bank connection skipped"
	default:
		line = string(attempt.State)
	}
	if attempt.Detail != "" {
		line += "\n" + labelStyle.Render(attempt.Detail)
	}
	return panelStyle.Render(line)
}

// Transcript renders the chat turns in order.
func Transcript(messages []models.ChatMessage) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		label := assistantStyle.Render("🌱 Nama'a")
		if m.Role == models.RoleUser {
			label = userStyle.Render("🧑 You")
		}
		stamp := ""
		if t := m.Time(); !t.IsZero() {
			stamp = labelStyle.Render(" " + t.Local().Format("15:04"))
		}
		b.WriteString(label + stamp + "\n" + m.Content)
	}
	return b.String()
}

// DashboardView is what the dashboard screen hands to the renderer.
type DashboardView struct {
	Data     *models.DashboardData
	Top      []models.CategorySpending
	Slices   []screens.ChartSlice
	Selected *models.Account
}

func Dashboard(v DashboardView, money *Money) string {
	if v.Data == nil {
		return panelStyle.Render("No data yet. Refresh to try again.")
	}
	d := v.Data

	sections := []string{
		balanceStyle.Render(fmt.Sprintf("Total Balance\n%s\n%d connected account(s)",
			money.Default(d.TotalBalance), d.AccountsCount)),
		accounts(d.Accounts, v.Selected, money),
		stats(d, money),
	}
	if len(v.Top) > 0 {
		sections = append(sections, categories(v.Top, v.Slices, money))
	}
	if len(d.RecentTransactions) > 0 {
		sections = append(sections, transactions(d.RecentTransactions, money))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func accounts(list []models.Account, selected *models.Account, money *Money) string {
	var b strings.Builder
	b.WriteString(strongStyle.Render("Accounts") + "\n")
	if len(list) == 0 {
		b.WriteString(labelStyle.Render("No accounts connected"))
		return panelStyle.Render(b.String())
	}
	for _, a := range list {
		marker := "  "
		if selected != nil && selected.ID == a.ID {
			marker = "▶ "
		}
		fmt.Fprintf(&b, "\n%s%-24s %-20s %s", marker, a.AccountName, labelStyle.Render(a.BankName), money.Format(a.Balance, a.Currency))
	}
	return panelStyle.Render(b.String())
}

func stats(d *models.DashboardData, money *Money) string {
	row := func(label, value string) string {
		return fmt.Sprintf("%-20s %s", labelStyle.Render(label), value)
	}
	return panelStyle.Render(strings.Join([]string{
		row("Monthly Income", money.Default(d.MonthlyIncome)),
		row("Monthly Spending", money.Default(d.MonthlySpending)),
		row("Savings Rate", Percent(d.SavingsRate)),
	}, "\n"))
}

const barWidth = 30

func categories(top []models.CategorySpending, slices []screens.ChartSlice, money *Money) string {
	peak := decimal.Zero
	for _, c := range top {
		if c.Amount.GreaterThan(peak) {
			peak = c.Amount
		}
	}

	var b strings.Builder
	b.WriteString(strongStyle.Render("Top Spending Categories") + "\n")
	for i, c := range top {
		width := 0
		if peak.IsPositive() {
			width = int(c.Amount.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		}
		bar := strings.Repeat("█", width)
		if i < len(slices) {
			bar = lipgloss.NewStyle().Foreground(lipgloss.Color(slices[i].Color)).Render(bar)
		}
		fmt.Fprintf(&b, "\n%-18s %s %s %s", c.Category, bar, money.Default(c.Amount),
			labelStyle.Render(fmt.Sprintf("(%d)", c.Count)))
	}
	return panelStyle.Render(b.String())
}

func transactions(list []models.Transaction, money *Money) string {
	var b strings.Builder
	b.WriteString(strongStyle.Render("Recent Transactions") + "\n")
	for _, t := range list {
		amount := money.Format(t.Amount, t.Currency)
		if strings.EqualFold(t.CreditDebit, "credit") {
			amount = creditStyle.Render("+" + amount)
		} else {
			amount = debitStyle.Render("-" + amount)
		}
		desc := t.Description
		if desc == "" {
			desc = t.Merchant
		}
		fmt.Fprintf(&b, "\n%-12s %-36s %s", labelStyle.Render(shortDate(t.TransactionDate)), desc, amount)
	}
	return panelStyle.Render(b.String())
}

func shortDate(s string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func Profile(email string, data *models.DashboardData, prefs models.Preferences, money *Money) string {
	var b strings.Builder
	b.WriteString(strongStyle.Render("👤 "+email) + "\n")
	if data != nil {
		fmt.Fprintf(&b, "\n%-20s %d", labelStyle.Render("Connected accounts"), data.AccountsCount)
		fmt.Fprintf(&b, "\n%-20s %s", labelStyle.Render("Total balance"), money.Default(data.TotalBalance))
		fmt.Fprintf(&b, "\n%-20s %s", labelStyle.Render("Savings rate"), Percent(data.SavingsRate))
	}

	notifications := "Off"
	if prefs.Notifications {
		notifications = "On"
	}
	fmt.Fprintf(&b, "\n\n%s", strongStyle.Render("Settings"))
	fmt.Fprintf(&b, "\n%-20s %s", labelStyle.Render("Notifications"), notifications)
	fmt.Fprintf(&b, "\n%-20s %s", labelStyle.Render("Language"), languageName(prefs.Language))
	return panelStyle.Render(b.String())
}

func languageName(l models.Language) string {
	switch l {
	case models.LanguageArabic:
		return "العربية"
	case models.LanguageBoth:
		return "English / العربية"
	default:
		return "English"
	}
}

func Advice(advice *models.InvestmentAdvice, money *Money) string {
	header := strongStyle.Render(fmt.Sprintf("💡 %s, %s", money.Default(advice.InvestmentAmount), advice.RiskTolerance))
	return panelStyle.Render(header + "\n\n" + advice.Advice)
}

// Sessions lists past chat sessions, newest first as the backend sends them.
func Sessions(list []models.ChatSessionSummary) string {
	if len(list) == 0 {
		return panelStyle.Render("No previous conversations.")
	}
	var b strings.Builder
	b.WriteString(strongStyle.Render("💬 Previous conversations"))
	for _, s := range list {
		title := s.Title
		if title == "" && len(s.Messages) > 0 {
			title = s.Messages[0].Content
		}
		if title == "" {
			title = s.SessionID
		}
		if r := []rune(title); len(r) > 48 {
			title = string(r[:48]) + "…"
		}
		when := s.UpdatedAt
		if t, err := time.Parse(time.RFC3339Nano, s.UpdatedAt); err == nil {
			when = humanize.Time(t)
		}
		fmt.Fprintf(&b, "\n%-50s %s %s", title,
			labelStyle.Render(humanize.Comma(int64(s.TotalMessages))+" messages"),
			labelStyle.Render(when))
	}
	return panelStyle.Render(b.String())
}

// SessionInfo shows the stored identity and when it lapses.
func SessionInfo(id models.Identity, expiresAt time.Time) string {
	lines := []string{
		fmt.Sprintf("%-18s %s", labelStyle.Render("Email"), id.UserEmail),
		fmt.Sprintf("%-18s %s", labelStyle.Render("User ID"), id.UserID),
		fmt.Sprintf("%-18s %s", labelStyle.Render("Customer ID"), id.CustomerUserID),
	}
	if !expiresAt.IsZero() {
		lines = append(lines, fmt.Sprintf("%-18s %s (%s)", labelStyle.Render("Expires"),
			expiresAt.Local().Format("2006-01-02 15:04"), humanize.Time(expiresAt)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
