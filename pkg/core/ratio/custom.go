package ratio

import (
	"context"
	"errors"
	"fmt"

	"fundamental_audit/pkg/models"
)

// ErrInvalidArgument marks a caller bug (blank identifiers, bad period type)
// as opposed to missing market data, which is always an undefined result.
var ErrInvalidArgument = errors.New("invalid argument")

// MergeSnapshots flattens balance sheet, income statement and cash flow into
// one field-name space. The first statement to define a name wins.
func MergeSnapshots(snaps ...*models.StatementSnapshot) map[string]float64 {
	merged := make(map[string]float64)
	for _, s := range snaps {
		if s == nil {
			continue
		}
		for name, v := range s.Fields {
			if _, exists := merged[name]; !exists {
				merged[name] = v
			}
		}
	}
	return merged
}

// ComputeCustomRatio divides one named field by another across the merged
// statement field space. It is the escape hatch for ratios outside the fixed
// catalog and follows the same undefined-on-missing/zero rule. Blank arguments
// or an unknown period type are a programming error and return
// ErrInvalidArgument.
func (e *Engine) ComputeCustomRatio(ctx context.Context, ticker string, period models.PeriodType, date, numeratorField, denominatorField string) (Result, error) {
	if ticker == "" || date == "" || numeratorField == "" || denominatorField == "" {
		return Result{}, fmt.Errorf("%w: ticker, fiscal date and field names must be non-empty", ErrInvalidArgument)
	}
	if !period.Valid() {
		return Result{}, fmt.Errorf("%w: period type %q", ErrInvalidArgument, period)
	}

	merged := MergeSnapshots(
		e.Balance(ctx, ticker, period, date),
		e.Income(ctx, ticker, period, date),
		e.CashFlow(ctx, ticker, period, date),
	)

	num, okN := merged[numeratorField]
	den, okD := merged[denominatorField]
	if !okN || !okD || den == 0 {
		return undefined(), nil
	}
	v := num / den
	return defined(v, fmt.Sprintf("%s per unit of %s", numeratorField, denominatorField)), nil
}
