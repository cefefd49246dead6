package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LoanInfo holds the financing terms for an asset. InterestRate is the
// nominal annual rate as a fraction (0.06 = 6%), LoanTerm is in months.
// MonthlyPayment may be pre-supplied by the caller but the schedule engine
// always recomputes it; the stored value is advisory only.
type LoanInfo struct {
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	LoanTerm       int             `json:"loan_term"`
	StartDate      time.Time       `json:"start_date"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

// Asset is a financed or owned piece of fleet equipment. LoanInfo is nil for
// assets bought outright; such assets never appear in business-debt output.
type Asset struct {
	ID            uuid.UUID       `json:"id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	Type          string          `json:"type"` // e.g. "truck", "trailer"
	Make          string          `json:"make"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	VIN           string          `json:"vin"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	LoanInfo      *LoanInfo       `json:"loan_info,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
