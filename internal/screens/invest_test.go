package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dyike/NamaaGo/internal/api"
	"github.com/dyike/NamaaGo/internal/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"10000", "10000", false},
		{" 25,000.50 ", "25000.5", false},
		{"", "", true},
		{"-5", "", true},
		{"0", "", true},
		{"ten", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestInvestAdvise(t *testing.T) {
	env := newTestEnv(t, true)
	env.backend.advice = &models.InvestmentAdvice{Advice: "Consider a sukuk fund"}
	invest := NewInvest(env.deps)
	if err := invest.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	var verr *ValidationError
	if _, err := invest.Advise(context.Background(), decimal.NewFromInt(1000), "reckless"); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if env.backend.count("advice") != 0 {
		t.Fatalf("invalid input must not reach the backend")
	}

	advice, err := invest.Advise(context.Background(), decimal.NewFromInt(1000), models.RiskModerate)
	if err != nil {
		t.Fatalf("Advise: %v", err)
	}
	if advice.Advice != "Consider a sukuk fund" {
		t.Fatalf("unexpected advice %+v", advice)
	}
}

func TestInvestAdviseFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.backend.adviceErr = &api.Error{Status: 500, Message: "Failed to generate investment advice"}

	_, err := NewInvest(env.deps).Advise(context.Background(), decimal.NewFromInt(500), models.RiskConservative)
	var uerr *UserError
	if !errors.As(err, &uerr) || uerr.Message != "Failed to generate investment advice" {
		t.Fatalf("expected backend message, got %v", err)
	}
}

func TestHistoryEnter(t *testing.T) {
	env := newTestEnv(t, true)
	env.backend.sessions = []models.ChatSessionSummary{{SessionID: "session_a", TotalMessages: 4}}

	history := NewHistory(env.deps)
	if err := history.Enter(context.Background()); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if got := history.Sessions(); len(got) != 1 || got[0].SessionID != "session_a" {
		t.Fatalf("unexpected sessions %+v", got)
	}
}
