// Package schedule implements the financial schedule engine: loan
// amortization, straight-line depreciation and the company-wide business-debt
// rollup. Every function here is pure — it owns no state, performs no I/O and
// returns freshly allocated results, so calls with identical inputs yield
// identical output.
//
// All money values use decimal arithmetic rounded to moneyScale fractional
// digits at each row boundary, so the conservation invariants (final balance
// exactly zero, principals summing to the loan amount) hold exactly rather
// than approximately.
package schedule

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fleetfin/pkg/models"
)

// moneyScale is the fixed number of fractional digits for money values.
// Process-wide, read-only.
const moneyScale = 2

var (
	one           = decimal.NewFromInt(1)
	monthsPerYear = decimal.NewFromInt(12)
)

// ComputeAmortization builds the full monthly payoff schedule for a
// fixed-rate, fully-amortizing loan. The final row is adjusted so the closing
// balance is exactly zero; it is the only row whose payment may differ from
// the level monthly payment.
func ComputeAmortization(loan *models.LoanInfo) (*models.AmortizationSchedule, error) {
	if loan == nil {
		return nil, fmt.Errorf("%w: loan info is required", ErrInvalidLoanParameters)
	}
	if !loan.LoanAmount.IsPositive() {
		return nil, fmt.Errorf("%w: loan amount must be positive, got %s", ErrInvalidLoanParameters, loan.LoanAmount)
	}
	if loan.LoanTerm <= 0 {
		return nil, fmt.Errorf("%w: loan term must be positive, got %d", ErrInvalidLoanParameters, loan.LoanTerm)
	}
	if loan.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate must not be negative, got %s", ErrInvalidLoanParameters, loan.InterestRate)
	}

	monthlyRate := loan.InterestRate.Div(monthsPerYear)
	payment, err := monthlyPayment(loan.LoanAmount, monthlyRate, loan.LoanTerm)
	if err != nil {
		return nil, err
	}

	entries := make([]models.AmortizationEntry, 0, loan.LoanTerm)
	balance := loan.LoanAmount
	cumulativeInterest := decimal.Zero
	totalAmount := decimal.Zero

	for month := 1; month <= loan.LoanTerm; month++ {
		interest := balance.Mul(monthlyRate).Round(moneyScale)
		principal := payment.Sub(interest)
		rowPayment := payment
		balance = balance.Sub(principal)

		// Fold rounding residue into the last row so the loan closes at
		// exactly zero.
		if month == loan.LoanTerm && !balance.IsZero() {
			principal = principal.Add(balance)
			rowPayment = principal.Add(interest)
			balance = decimal.Zero
		}

		cumulativeInterest = cumulativeInterest.Add(interest)
		totalAmount = totalAmount.Add(rowPayment)

		entries = append(entries, models.AmortizationEntry{
			Month:              month,
			Payment:            rowPayment,
			Principal:          principal,
			Interest:           interest,
			Balance:            balance,
			CumulativeInterest: cumulativeInterest,
			Date:               loan.StartDate.AddDate(0, month, 0),
		})
	}

	return &models.AmortizationSchedule{
		TotalAmount:    totalAmount,
		MonthlyPayment: payment,
		TotalInterest:  cumulativeInterest,
		Entries:        entries,
	}, nil
}

// monthlyPayment computes the level annuity payment, rounded to the money
// scale. A zero rate degenerates to straight division.
func monthlyPayment(amount, monthlyRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	term := decimal.NewFromInt(int64(termMonths))

	if monthlyRate.IsZero() {
		return amount.Div(term).Round(moneyScale), nil
	}

	growth := one.Add(monthlyRate).Pow(term)
	denominator := growth.Sub(one)
	if !denominator.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: annuity denominator %s for rate %s over %d months",
			ErrArithmeticDomain, denominator, monthlyRate, termMonths)
	}

	payment := amount.Mul(monthlyRate).Mul(growth).Div(denominator).Round(moneyScale)
	if !payment.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive payment %s", ErrArithmeticDomain, payment)
	}
	return payment, nil
}
