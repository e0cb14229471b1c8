package screens

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/dyike/NamaaGo/internal/models"
)

// TopCategoryLimit caps the category list and the chart.
const TopCategoryLimit = 6

// ChartPalette colours the chart slices in order.
var ChartPalette = []string{"#2E7D32", "#4CAF50", "#66BB6A", "#81C784", "#A5D6A7", "#C8E6C9"}

// ChartSlice is one category of the spending chart.
type ChartSlice struct {
	Name  string
	Value decimal.Decimal
	Color string
}

// Dashboard shows the snapshot for the session user. A failed fetch keeps
// whatever was shown before.
type Dashboard struct {
	deps Deps

	mu         sync.Mutex
	identity   models.Identity
	snapshot   *models.DashboardData
	selected   string
	chosen     bool
	refreshing bool
	lastErr    error
}

func NewDashboard(deps Deps) *Dashboard {
	return &Dashboard{deps: deps}
}

// Enter checks the session and loads the snapshot, from the shared cache
// when it is fresh.
func (d *Dashboard) Enter(ctx context.Context) error {
	id, err := Gate(d.deps.Session)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.identity = id
	d.mu.Unlock()

	data, err := d.deps.Snapshots.Get(ctx, id.UserID, d.deps.Backend.Dashboard)
	return d.apply(id, data, err)
}

// Refresh always re-issues the snapshot request.
func (d *Dashboard) Refresh(ctx context.Context) error {
	id, err := Gate(d.deps.Session)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.identity = id
	d.refreshing = true
	d.mu.Unlock()

	data, err := d.deps.Snapshots.Refresh(ctx, id.UserID, d.deps.Backend.Dashboard)

	d.mu.Lock()
	d.refreshing = false
	d.mu.Unlock()
	return d.apply(id, data, err)
}

func (d *Dashboard) apply(id models.Identity, data *models.DashboardData, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.deps.Log.WithError(err).WithField("user_id", id.UserID).Warn("load dashboard")
		d.lastErr = &FetchError{Screen: RouteDashboard, Err: err}
		return d.lastErr
	}

	d.snapshot = data
	d.lastErr = nil
	if !d.chosen && d.selected == "" && len(data.Accounts) > 0 {
		d.selected = data.Accounts[0].ID.String()
	}
	return nil
}

// Snapshot is nil until the first successful load.
func (d *Dashboard) Snapshot() *models.DashboardData {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot
}

func (d *Dashboard) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshing
}

func (d *Dashboard) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// TopCategories returns the first entries in the order received.
func (d *Dashboard) TopCategories() []models.CategorySpending {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snapshot == nil {
		return nil
	}
	cats := d.snapshot.CategorySpending
	if len(cats) > TopCategoryLimit {
		cats = cats[:TopCategoryLimit]
	}
	return append([]models.CategorySpending(nil), cats...)
}

func (d *Dashboard) ChartSlices() []ChartSlice {
	cats := d.TopCategories()
	slices := make([]ChartSlice, 0, len(cats))
	for i, c := range cats {
		slices = append(slices, ChartSlice{
			Name:  c.Category,
			Value: c.Amount,
			Color: ChartPalette[i%len(ChartPalette)],
		})
	}
	return slices
}

// SelectAccount picks one account by id. An empty id means all accounts.
func (d *Dashboard) SelectAccount(accountID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if accountID != "" {
		if d.snapshot == nil {
			return &ValidationError{Field: "account", Message: "No accounts loaded"}
		}
		found := false
		for _, a := range d.snapshot.Accounts {
			if a.ID.String() == accountID {
				found = true
				break
			}
		}
		if !found {
			return &ValidationError{Field: "account", Message: fmt.Sprintf("Unknown account %s", accountID)}
		}
	}
	d.selected = accountID
	d.chosen = true
	return nil
}

// SelectedAccount reports false when all accounts are selected.
func (d *Dashboard) SelectedAccount() (models.Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snapshot == nil || d.selected == "" {
		return models.Account{}, false
	}
	for _, a := range d.snapshot.Accounts {
		if a.ID.String() == d.selected {
			return a, true
		}
	}
	return models.Account{}, false
}

// Alternatives fetches cheaper options for a category and formats them as
// the alert text.
func (d *Dashboard) Alternatives(ctx context.Context, category string) (string, error) {
	id, err := Gate(d.deps.Session)
	if err != nil {
		return "", err
	}

	alts, err := d.deps.Backend.Alternatives(ctx, category, id.UserID)
	if err != nil {
		d.deps.Log.WithError(err).WithField("category", category).Warn("load alternatives")
		return "", &FetchError{Screen: RouteDashboard, Err: err}
	}
	return FormatAlternatives(category, alts), nil
}

// FormatAlternatives renders one bullet per alternative.
func FormatAlternatives(category string, alts []models.Alternative) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Alternatives for %s:\n\n", category)
	for i, alt := range alts {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s: %s (Save %s%%)", alt.Name, alt.DescriptionEN, alt.EstimatedSavingsPercent.String())
	}
	return b.String()
}
