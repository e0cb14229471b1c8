package models

import "github.com/shopspring/decimal"

// DashboardData is the backend-computed snapshot shared by the dashboard and profile screens.
type DashboardData struct {
	TotalBalance       decimal.Decimal    `json:"totalBalance"`
	AccountsCount      int                `json:"accountsCount"`
	Accounts           []Account          `json:"accounts"`
	MonthlyIncome      decimal.Decimal    `json:"monthlyIncome"`
	MonthlySpending    decimal.Decimal    `json:"monthlySpending"`
	SavingsRate        decimal.Decimal    `json:"savingsRate"`
	CategorySpending   []CategorySpending `json:"categorySpending"`
	RecentTransactions []Transaction      `json:"recentTransactions"`
}

type Account struct {
	ID          FlexID          `json:"id"`
	AccountName string          `json:"account_name"`
	BankName    string          `json:"bank_name"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
}

type CategorySpending struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Transaction is an entry of recentTransactions. Only display fields are decoded.
type Transaction struct {
	ID              FlexID          `json:"id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	CreditDebit     string          `json:"credit_debit"`
	TransactionDate string          `json:"transaction_date"`
	Category        string          `json:"category"`
	Merchant        string          `json:"merchant"`
}

// Alternative is a cheaper option suggested for a spending category.
type Alternative struct {
	Name                    string          `json:"name"`
	DescriptionEN           string          `json:"description_en"`
	DescriptionAR           string          `json:"description_ar,omitempty"`
	EstimatedSavingsPercent decimal.Decimal `json:"estimated_savings_percent"`
}

// RiskTolerance is the investor profile sent with an investment-advice request.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

type InvestmentAdvice struct {
	Advice           string          `json:"investmentAdvice"`
	RiskTolerance    RiskTolerance   `json:"riskTolerance"`
	InvestmentAmount decimal.Decimal `json:"investmentAmount"`
}
