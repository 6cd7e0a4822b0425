package score

import (
	"context"

	"fundamental_audit/pkg/models"
)

// Altman classification labels.
const (
	AltmanSafe     = "safe"
	AltmanGray     = "gray"
	AltmanDistress = "distress"
)

// AltmanResult holds the Z-Score and its five weighted components.
type AltmanResult struct {
	Z              float64            `json:"z_score"`
	Components     map[string]float64 `json:"components"`
	Classification string             `json:"classification"`
}

// ClassifyAltman maps Z onto the risk bands. Both band edges belong to the
// gray zone: Z > 3 is safe, 1.8 <= Z <= 3 is gray, below is distress.
func ClassifyAltman(z float64) string {
	switch {
	case z > 3:
		return AltmanSafe
	case z >= 1.8:
		return AltmanGray
	default:
		return AltmanDistress
	}
}

// AltmanZ computes the manufacturing Z-Score
//
//	Z = 1.2*(WC/TA) + 1.4*(RE/TA) + 3.3*(EBIT/TA) + 0.6*(MVE/TL) + 0.999*(Sales/TA)
//
// where working capital = current assets - current liabilities and market
// value of equity = close price x shares outstanding. All eight statement
// fields plus a price are required, and total assets and total liabilities
// must be non-zero; otherwise the score is undefined (nil).
func (e *Engine) AltmanZ(ctx context.Context, ticker string, period models.PeriodType, date string) *AltmanResult {
	bs := e.ratios.Balance(ctx, ticker, period, date)
	is := e.ratios.Income(ctx, ticker, period, date)

	ca, ok1 := bs.Get("totalCurrentAssets")
	cl, ok2 := bs.Get("totalCurrentLiabilities")
	re, ok3 := bs.Get("retainedEarnings")
	ta, ok4 := bs.Get("totalAssets")
	tl, ok5 := bs.Get("totalLiabilities")
	oi, ok6 := is.Get("operatingIncome")
	rev, ok7 := is.Get("revenue")
	shares, ok8 := is.Get("weightedAverageShsOut")
	price, okPrice := e.ratios.ClosePriceAt(ctx, ticker, date)

	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8 && okPrice) {
		return nil
	}
	if ta == 0 || tl == 0 {
		return nil
	}

	wc := ca - cl
	mve := price * shares

	a := 1.2 * (wc / ta)
	b := 1.4 * (re / ta)
	c := 3.3 * (oi / ta)
	d := 0.6 * (mve / tl)
	f := 0.999 * (rev / ta)

	z := a + b + c + d + f
	return &AltmanResult{
		Z: z,
		Components: map[string]float64{
			"working_capital_to_assets":    a,
			"retained_earnings_to_assets":  b,
			"ebit_to_assets":               c,
			"market_equity_to_liabilities": d,
			"sales_to_assets":              f,
		},
		Classification: ClassifyAltman(z),
	}
}
