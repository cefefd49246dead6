package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmortizationEntry is one monthly row of a loan payoff schedule.
type AmortizationEntry struct {
	Month              int             `json:"month"`
	Payment            decimal.Decimal `json:"payment"`
	Principal          decimal.Decimal `json:"principal"`
	Interest           decimal.Decimal `json:"interest"`
	Balance            decimal.Decimal `json:"balance"`
	CumulativeInterest decimal.Decimal `json:"cumulative_interest"`
	Date               time.Time       `json:"date"`
}

type AmortizationSchedule struct {
	AssetID        uuid.UUID           `json:"asset_id"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	MonthlyPayment decimal.Decimal     `json:"monthly_payment"`
	TotalInterest  decimal.Decimal     `json:"total_interest"`
	Entries        []AmortizationEntry `json:"entries"`
}

// DepreciationEntry is one annual row of a straight-line depreciation schedule.
type DepreciationEntry struct {
	Year                    int             `json:"year"`
	DepreciationAmount      decimal.Decimal `json:"depreciation_amount"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	BookValue               decimal.Decimal `json:"book_value"`
	Date                    time.Time       `json:"date"`
}

type DepreciationSchedule struct {
	AssetID            uuid.UUID           `json:"asset_id"`
	InitialValue       decimal.Decimal     `json:"initial_value"`
	UsefulLife         int                 `json:"useful_life"`
	AnnualDepreciation decimal.Decimal     `json:"annual_depreciation"`
	Entries            []DepreciationEntry `json:"entries"`
}

// BusinessDebtDetail is the current-debt snapshot for one financed asset.
type BusinessDebtDetail struct {
	AssetID         uuid.UUID       `json:"asset_id"`
	AssetType       string          `json:"asset_type"`
	Make            string          `json:"make"`
	Model           string          `json:"model"`
	Year            int             `json:"year"`
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	RemainingMonths int             `json:"remaining_months"`
}

// BusinessDebtSummary rolls the detail rows up to company level.
type BusinessDebtSummary struct {
	CompanyID       uuid.UUID       `json:"company_id"`
	TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`
	TotalBalance    decimal.Decimal `json:"total_balance"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	AssetsCount     int             `json:"assets_count"`
}

type BusinessDebtSchedule struct {
	Summary BusinessDebtSummary  `json:"summary"`
	Details []BusinessDebtDetail `json:"details"`
}
