package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fleetfin/pkg/models"
)

// UsefulLifePolicy maps an asset type to its depreciation period in years.
// It is deployment configuration, not engine knowledge: callers load it at
// startup and pass it in.
type UsefulLifePolicy map[string]int

// DefaultUsefulLifeYears applies when an asset type has no policy entry.
const DefaultUsefulLifeYears = 7

// Years resolves the useful life for an asset type, falling back to the
// default when the type is unknown.
func (p UsefulLifePolicy) Years(assetType string) int {
	if years, ok := p[assetType]; ok && years > 0 {
		return years
	}
	return DefaultUsefulLifeYears
}

// ComputeDepreciation builds a straight-line, zero-salvage depreciation
// schedule. The final year folds any rounding residue so accumulated
// depreciation equals the initial value and book value closes at exactly zero.
func ComputeDepreciation(initialValue decimal.Decimal, usefulLife int, startDate time.Time) (*models.DepreciationSchedule, error) {
	if !initialValue.IsPositive() {
		return nil, fmt.Errorf("%w: initial value must be positive, got %s", ErrInvalidDepreciationParameters, initialValue)
	}
	if usefulLife <= 0 {
		return nil, fmt.Errorf("%w: useful life must be positive, got %d", ErrInvalidDepreciationParameters, usefulLife)
	}

	annual := initialValue.Div(decimal.NewFromInt(int64(usefulLife))).Round(moneyScale)

	entries := make([]models.DepreciationEntry, 0, usefulLife)
	accumulated := decimal.Zero

	for year := 1; year <= usefulLife; year++ {
		amount := annual
		if year == usefulLife {
			// Close out: the last year absorbs the rounding residue.
			amount = initialValue.Sub(accumulated)
		}
		accumulated = accumulated.Add(amount)

		entries = append(entries, models.DepreciationEntry{
			Year:                    year,
			DepreciationAmount:      amount,
			AccumulatedDepreciation: accumulated,
			BookValue:               initialValue.Sub(accumulated),
			Date:                    startDate.AddDate(year, 0, 0),
		})
	}

	return &models.DepreciationSchedule{
		InitialValue:       initialValue,
		UsefulLife:         usefulLife,
		AnnualDepreciation: annual,
		Entries:            entries,
	}, nil
}
