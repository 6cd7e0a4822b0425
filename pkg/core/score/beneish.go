package score

import (
	"context"

	"fundamental_audit/pkg/models"
)

// beneishHighRiskThreshold: an M-Score above it flags likely manipulation.
const beneishHighRiskThreshold = -2.22

// BeneishResult holds the eight index variables and the final M-Score.
type BeneishResult struct {
	DSRI float64 `json:"dsri"` // Days Sales in Receivables Index
	GMI  float64 `json:"gmi"`  // Gross Margin Index
	AQI  float64 `json:"aqi"`  // Asset Quality Index
	SGI  float64 `json:"sgi"`  // Sales Growth Index
	DEPI float64 `json:"depi"` // Depreciation Index
	SGAI float64 `json:"sgai"` // SG&A Expenses Index
	TATA float64 `json:"tata"` // Total Accruals to Total Assets
	LVGI float64 `json:"lvgi"` // Leverage Index

	Score float64 `json:"score"`
	Risk  string  `json:"risk"` // "high" or "low"
}

// BeneishM computes the eight-variable M-Score from the current fiscal year
// and the year exactly one calendar year earlier.
//
//	M = -4.84 + 0.92*DSRI + 0.528*GMI + 0.404*AQI + 0.892*SGI
//	    + 0.115*DEPI - 0.172*SGAI + 4.679*TATA - 0.327*LVGI
//
// Any missing field, an unparseable fiscal date, or a zero denominator in an
// intermediate ratio (sales, gross margin, asset quality, depreciation
// intensity, SG&A base, leverage base) makes the whole score undefined.
func (e *Engine) BeneishM(ctx context.Context, ticker string, period models.PeriodType, date string) *BeneishResult {
	priorDate, ok := models.PriorFiscalDate(date)
	if !ok {
		return nil
	}

	type yearInputs struct {
		receivables, sales, grossProfit float64
		currentAssets, ppe, totalAssets float64
		depreciation, sga               float64
		totalLiabilities                float64
	}

	load := func(d string) (*yearInputs, bool) {
		bs := e.ratios.Balance(ctx, ticker, period, d)
		is := e.ratios.Income(ctx, ticker, period, d)
		cf := e.ratios.CashFlow(ctx, ticker, period, d)

		in := &yearInputs{}
		var ok bool
		if in.receivables, ok = bs.Get("netReceivables"); !ok {
			return nil, false
		}
		if in.sales, ok = is.Get("revenue"); !ok {
			return nil, false
		}
		if in.grossProfit, ok = is.Get("grossProfit"); !ok {
			return nil, false
		}
		if in.currentAssets, ok = bs.Get("totalCurrentAssets"); !ok {
			return nil, false
		}
		if in.ppe, ok = bs.Get("propertyPlantEquipmentNet"); !ok {
			return nil, false
		}
		if in.totalAssets, ok = bs.Get("totalAssets"); !ok {
			return nil, false
		}
		if in.depreciation, ok = cf.Get("depreciationAndAmortization"); !ok {
			return nil, false
		}
		if in.sga, ok = is.Get("sellingGeneralAndAdministrativeExpenses"); !ok {
			return nil, false
		}
		if in.totalLiabilities, ok = bs.Get("totalLiabilities"); !ok {
			return nil, false
		}
		return in, true
	}

	curr, okCurr := load(date)
	prior, okPrior := load(priorDate)
	if !okCurr || !okPrior {
		return nil
	}

	is := e.ratios.Income(ctx, ticker, period, date)
	cf := e.ratios.CashFlow(ctx, ticker, period, date)
	ni, okNI := is.Get("netIncome")
	cfo, okCFO := cf.Get("operatingCashFlow")
	if !okNI || !okCFO {
		return nil
	}

	// ratio with an undefined outcome on a zero denominator; the bool
	// threads the failure out of the whole computation.
	div := func(num, den float64) (float64, bool) {
		if den == 0 {
			return 0, false
		}
		return num / den, true
	}

	// DSRI: (Receivables_t / Sales_t) / (Receivables_p / Sales_p)
	rsCurr, ok1 := div(curr.receivables, curr.sales)
	rsPrior, ok2 := div(prior.receivables, prior.sales)
	dsri, ok3 := div(rsCurr, rsPrior)
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	// GMI: gross margin deterioration index (prior margin over current).
	gmCurr, ok1 := div(curr.grossProfit, curr.sales)
	gmPrior, ok2 := div(prior.grossProfit, prior.sales)
	gmi, ok3 := div(gmPrior, gmCurr)
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	// AQI: soft-asset share index; soft assets = 1 - (CA + PPE)/TA.
	softCurr, ok1 := div(curr.currentAssets+curr.ppe, curr.totalAssets)
	softPrior, ok2 := div(prior.currentAssets+prior.ppe, prior.totalAssets)
	aqi, ok3 := div(1-softCurr, 1-softPrior)
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	// SGI: sales growth.
	sgi, ok1 := div(curr.sales, prior.sales)
	if !ok1 {
		return nil
	}

	// DEPI: prior depreciation rate over current; rate = dep / (dep + PPE).
	rateCurr, ok1 := div(curr.depreciation, curr.depreciation+curr.ppe)
	ratePrior, ok2 := div(prior.depreciation, prior.depreciation+prior.ppe)
	depi, ok3 := div(ratePrior, rateCurr)
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	// SGAI: SG&A share of sales index.
	sgaCurr, ok1 := div(curr.sga, curr.sales)
	sgaPrior, ok2 := div(prior.sga, prior.sales)
	sgai, ok3 := div(sgaCurr, sgaPrior)
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	// TATA: total accruals scaled by assets.
	tata, ok1 := div(ni-cfo, curr.totalAssets)
	if !ok1 {
		return nil
	}

	// LVGI: leverage index.
	levCurr, ok1 := div(curr.totalLiabilities, curr.totalAssets)
	levPrior, ok2 := div(prior.totalLiabilities, prior.totalAssets)
	lvgi, ok3 := div(levCurr, levPrior)
	if !(ok1 && ok2 && ok3) {
		return nil
	}

	m := -4.84 +
		0.920*dsri +
		0.528*gmi +
		0.404*aqi +
		0.892*sgi +
		0.115*depi -
		0.172*sgai +
		4.679*tata -
		0.327*lvgi

	risk := "low"
	if m > beneishHighRiskThreshold {
		risk = "high"
	}

	return &BeneishResult{
		DSRI: dsri, GMI: gmi, AQI: aqi, SGI: sgi,
		DEPI: depi, SGAI: sgai, TATA: tata, LVGI: lvgi,
		Score: m,
		Risk:  risk,
	}
}
