package schedule

import "errors"

var (
	// ErrInvalidLoanParameters signals a precondition violation on loan input
	// (non-positive amount or term, negative rate). Deterministic; never retried.
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")

	// ErrInvalidDepreciationParameters signals a non-positive initial value or
	// useful life.
	ErrInvalidDepreciationParameters = errors.New("invalid depreciation parameters")

	// ErrNoFinancedAssets is returned by ComputeBusinessDebt when no asset in
	// the input carries loan information. Callers may treat it as a valid
	// empty result rather than a failure.
	ErrNoFinancedAssets = errors.New("no financed assets")

	// ErrArithmeticDomain signals that an intermediate computation degenerated
	// (e.g. the annuity denominator collapsed for an extreme rate/term
	// combination). Raised instead of emitting a nonsensical schedule.
	ErrArithmeticDomain = errors.New("arithmetic domain error")
)
