package screens

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/models"
)

const adviceFallback = "Failed to get investment advice"

// Invest asks the assistant for advice on a one-off investment.
type Invest struct {
	deps     Deps
	identity models.Identity
}

func NewInvest(deps Deps) *Invest {
	return &Invest{deps: deps}
}

func (i *Invest) Enter() error {
	id, err := Gate(i.deps.Session)
	if err != nil {
		return err
	}
	i.identity = id
	return nil
}

// ParseAmount reads a positive amount as typed, accepting thousands
// separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "Investment amount is required"}
	}
	amount, err := decimal.NewFromString(clean)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "Please enter an investment amount greater than zero"}
	}
	return amount, nil
}

func (i *Invest) Advise(ctx context.Context, amount decimal.Decimal, risk models.RiskTolerance) (*models.InvestmentAdvice, error) {
	if !amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Message: "Please enter an investment amount greater than zero"}
	}
	if !risk.Valid() {
		return nil, &ValidationError{Field: "riskTolerance", Message: "Please choose conservative, moderate or aggressive"}
	}

	id, err := Gate(i.deps.Session)
	if err != nil {
		return nil, err
	}
	i.identity = id

	advice, err := i.deps.Backend.InvestmentAdvice(ctx, api.InvestmentRequest{
		UserID:           id.UserID,
		InvestmentAmount: amount,
		RiskTolerance:    risk,
	})
	if err != nil {
		i.deps.Log.WithError(err).Warn("investment advice failed")
		return nil, userError(err, adviceFallback)
	}
	return advice, nil
}
