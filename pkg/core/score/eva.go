package score

import (
	"context"

	"fundamental_audit/pkg/models"
)

// Default EVA assumptions, used when the caller passes no overrides.
const (
	DefaultWACC    = 0.10
	DefaultTaxRate = 0.21
)

// EVAParams overrides the cost-of-capital assumptions. Nil fields fall back
// to the defaults; an explicit zero is honored.
type EVAParams struct {
	WACC    *float64
	TaxRate *float64
}

// EVAResult is the economic-value-added breakdown.
type EVAResult struct {
	NOPAT           float64 `json:"nopat"`
	InvestedCapital float64 `json:"invested_capital"`
	CapitalCharge   float64 `json:"capital_charge"`
	WACC            float64 `json:"wacc"`
	TaxRate         float64 `json:"tax_rate"`
	EVA             float64 `json:"eva"`
	Interpretation  string  `json:"interpretation"`
}

// EVA computes NOPAT minus the capital charge, with
// NOPAT = EBIT x (1 - tax rate) and invested capital = total assets minus
// current liabilities. Missing operating income, total assets or current
// liabilities makes the score undefined.
func (e *Engine) EVA(ctx context.Context, ticker string, period models.PeriodType, date string, params EVAParams) *EVAResult {
	wacc := DefaultWACC
	if params.WACC != nil {
		wacc = *params.WACC
	}
	taxRate := DefaultTaxRate
	if params.TaxRate != nil {
		taxRate = *params.TaxRate
	}

	bs := e.ratios.Balance(ctx, ticker, period, date)
	is := e.ratios.Income(ctx, ticker, period, date)

	ebit, ok1 := is.Get("operatingIncome")
	ta, ok2 := bs.Get("totalAssets")
	cl, ok3 := bs.Get("totalCurrentLiabilities")
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	nopat := ebit * (1 - taxRate)
	capital := ta - cl
	charge := capital * wacc
	eva := nopat - charge

	var interp string
	switch {
	case eva > 0:
		interp = "Creating shareholder value above the cost of capital"
	case eva < 0:
		interp = "Destroying shareholder value relative to the cost of capital"
	default:
		interp = "Break-even: returns exactly cover the cost of capital"
	}

	return &EVAResult{
		NOPAT:           nopat,
		InvestedCapital: capital,
		CapitalCharge:   charge,
		WACC:            wacc,
		TaxRate:         taxRate,
		EVA:             eva,
		Interpretation:  interp,
	}
}
