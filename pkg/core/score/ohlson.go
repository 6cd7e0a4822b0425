package score

import (
	"context"
	"math"

	"fundamental_audit/pkg/models"
)

// ohlsonHighRiskThreshold: an O-Score above it flags elevated bankruptcy risk.
const ohlsonHighRiskThreshold = 0.5

// OhlsonResult holds the nine weighted variables and the final O-Score.
type OhlsonResult struct {
	O          float64            `json:"o_score"`
	Components map[string]float64 `json:"components"`
	Risk       string             `json:"risk"` // "high" or "low"
}

// OhlsonO computes the 1980 nine-variable O-Score. It needs the current
// balance sheet, income statement and cash-flow statement plus net income one
// and two years back (for the loss-history and income-change terms). Any
// missing prerequisite, a non-positive total-asset base, or a zero denominator
// makes the whole score undefined.
func (e *Engine) OhlsonO(ctx context.Context, ticker string, period models.PeriodType, date string) *OhlsonResult {
	prior1, ok := models.PriorFiscalDate(date)
	if !ok {
		return nil
	}
	prior2, ok := models.PriorFiscalDate(prior1)
	if !ok {
		return nil
	}

	bs := e.ratios.Balance(ctx, ticker, period, date)
	is := e.ratios.Income(ctx, ticker, period, date)
	cf := e.ratios.CashFlow(ctx, ticker, period, date)

	ta, ok1 := bs.Get("totalAssets")
	tl, ok2 := bs.Get("totalLiabilities")
	ca, ok3 := bs.Get("totalCurrentAssets")
	cl, ok4 := bs.Get("totalCurrentLiabilities")
	ni, ok5 := is.Get("netIncome")
	fu, ok6 := cf.Get("operatingCashFlow") // funds from operations
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil
	}

	niPrior1, ok7 := e.ratios.Income(ctx, ticker, period, prior1).Get("netIncome")
	niPrior2, ok8 := e.ratios.Income(ctx, ticker, period, prior2).Get("netIncome")
	if !ok7 || !ok8 {
		return nil
	}

	if ta <= 0 || tl == 0 || ca == 0 {
		return nil
	}
	chinDen := math.Abs(ni) + math.Abs(niPrior1)
	if chinDen == 0 {
		return nil
	}

	size := math.Log(ta)
	tlta := tl / ta
	wcta := (ca - cl) / ta
	clca := cl / ca
	nita := ni / ta
	futl := fu / tl
	chin := (ni - niPrior1) / chinDen

	oeneg := 0.0 // 1 when liabilities exceed assets
	if tl > ta {
		oeneg = 1
	}
	intwo := 0.0 // 1 after two straight loss years
	if niPrior1 < 0 && niPrior2 < 0 {
		intwo = 1
	}

	o := -1.32 -
		0.407*size +
		6.03*tlta -
		1.43*wcta +
		0.0757*clca -
		1.72*oeneg -
		2.37*nita -
		1.83*futl +
		0.285*intwo -
		0.521*chin

	risk := "low"
	if o > ohlsonHighRiskThreshold {
		risk = "high"
	}

	return &OhlsonResult{
		O: o,
		Components: map[string]float64{
			"log_total_assets":      size,
			"liabilities_to_assets": tlta,
			"working_capital_ratio": wcta,
			"current_liquidity":     clca,
			"negative_equity":       oeneg,
			"return_on_assets":      nita,
			"funds_to_liabilities":  futl,
			"two_year_loss_history": intwo,
			"net_income_change":     chin,
		},
		Risk: risk,
	}
}
