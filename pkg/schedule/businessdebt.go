package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fleetfin/pkg/models"
)

// maxParallelAssets bounds the aggregator's fan-out across a company's fleet.
const maxParallelAssets = 8

// ComputeBusinessDebt derives the current-debt snapshot for every financed
// asset in the input and a company-level summary. Assets without loan info
// are excluded; if none remain, ErrNoFinancedAssets is returned so the caller
// can render a zero-totals result.
//
// Detail rows preserve the input order. Each asset's amortization run is
// independent, so they are evaluated concurrently and written back by index.
func ComputeBusinessDebt(assets []*models.Asset, evaluationDate time.Time) (*models.BusinessDebtSchedule, error) {
	financed := make([]*models.Asset, 0, len(assets))
	for _, asset := range assets {
		if asset.LoanInfo != nil {
			financed = append(financed, asset)
		}
	}
	if len(financed) == 0 {
		return nil, ErrNoFinancedAssets
	}

	details := make([]models.BusinessDebtDetail, len(financed))

	var g errgroup.Group
	g.SetLimit(maxParallelAssets)
	for i, asset := range financed {
		i, asset := i, asset
		g.Go(func() error {
			detail, err := assetDebtDetail(asset, evaluationDate)
			if err != nil {
				return fmt.Errorf("asset %s: %w", asset.ID, err)
			}
			details[i] = detail
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := models.BusinessDebtSummary{
		TotalLoanAmount: decimal.Zero,
		TotalBalance:    decimal.Zero,
		MonthlyPayment:  decimal.Zero,
		AssetsCount:     len(details),
	}
	for _, d := range details {
		summary.TotalLoanAmount = summary.TotalLoanAmount.Add(d.LoanAmount)
		summary.TotalBalance = summary.TotalBalance.Add(d.CurrentBalance)
		summary.MonthlyPayment = summary.MonthlyPayment.Add(d.MonthlyPayment)
	}

	return &models.BusinessDebtSchedule{
		Summary: summary,
		Details: details,
	}, nil
}

// assetDebtDetail re-derives one asset's loan state as of the evaluation
// date. The balance is read off the freshly computed amortization schedule:
// elapsed month zero means no payment has been made yet, so the balance is
// the original loan amount.
func assetDebtDetail(asset *models.Asset, evaluationDate time.Time) (models.BusinessDebtDetail, error) {
	loan := asset.LoanInfo

	sched, err := ComputeAmortization(loan)
	if err != nil {
		return models.BusinessDebtDetail{}, err
	}

	elapsed := wholeMonthsBetween(loan.StartDate, evaluationDate)
	if elapsed > loan.LoanTerm {
		elapsed = loan.LoanTerm
	}

	balance := loan.LoanAmount
	if elapsed > 0 {
		balance = sched.Entries[elapsed-1].Balance
	}

	return models.BusinessDebtDetail{
		AssetID:         asset.ID,
		AssetType:       asset.Type,
		Make:            asset.Make,
		Model:           asset.Model,
		Year:            asset.Year,
		LoanAmount:      loan.LoanAmount,
		CurrentBalance:  balance,
		MonthlyPayment:  sched.MonthlyPayment,
		InterestRate:    loan.InterestRate,
		RemainingMonths: loan.LoanTerm - elapsed,
	}, nil
}

// wholeMonthsBetween counts complete calendar months from start to end,
// never negative. A loan starting on the 15th has one whole month elapsed on
// the 15th of the following month.
func wholeMonthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
