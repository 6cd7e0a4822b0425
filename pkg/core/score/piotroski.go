package score

import (
	"context"

	"fundamental_audit/pkg/models"
)

// PiotroskiResult is the F-Score: an integer in [0, 9], one point per passed
// criterion. A criterion whose inputs are missing scores zero and is listed
// in MissingComponents; entirely missing data therefore yields score 0, not
// an error.
type PiotroskiResult struct {
	Score             int            `json:"score"`
	Criteria          map[string]int `json:"criteria"`
	MissingComponents []string       `json:"missing_components"`
	Incomplete        bool           `json:"incomplete"`
}

// PiotroskiF evaluates the nine binary fundamental-strength criteria for the
// fiscal year against the year exactly one calendar year earlier.
func (e *Engine) PiotroskiF(ctx context.Context, ticker string, period models.PeriodType, date string) *PiotroskiResult {
	res := &PiotroskiResult{Criteria: make(map[string]int)}

	bs := e.ratios.Balance(ctx, ticker, period, date)
	is := e.ratios.Income(ctx, ticker, period, date)
	cf := e.ratios.CashFlow(ctx, ticker, period, date)

	priorDate, priorOK := models.PriorFiscalDate(date)
	var bsPrior, isPrior *models.StatementSnapshot
	if priorOK {
		bsPrior = e.ratios.Balance(ctx, ticker, period, priorDate)
		isPrior = e.ratios.Income(ctx, ticker, period, priorDate)
	}

	// award evaluates one criterion; a false ok means the inputs were
	// missing and the criterion degrades to zero points.
	award := func(name string, ok, pass bool) {
		if !ok {
			res.Criteria[name] = 0
			res.MissingComponents = append(res.MissingComponents, name)
			return
		}
		if pass {
			res.Criteria[name] = 1
			res.Score++
		} else {
			res.Criteria[name] = 0
		}
	}

	ni, okNI := is.Get("netIncome")
	ta, okTA := bs.Get("totalAssets")
	ocf, okOCF := cf.Get("operatingCashFlow")

	award("positive_net_income", okNI, ni > 0)
	award("positive_return_on_assets", okNI && okTA && ta != 0, okTA && ta != 0 && ni/ta > 0)
	award("positive_operating_cash_flow", okOCF, ocf > 0)
	award("cash_flow_exceeds_net_income", okOCF && okNI, ocf > ni)

	// Year-over-year criteria.
	ltd, okLTD := bs.Get("longTermDebt")
	ltdPrior, okLTDPrior := bsPrior.Get("longTermDebt")
	taPrior, okTAPrior := bsPrior.Get("totalAssets")
	okLev := okLTD && okLTDPrior && okTA && okTAPrior && ta != 0 && taPrior != 0
	award("decreasing_leverage", okLev, okLev && ltd/ta < ltdPrior/taPrior)

	ca, okCA := bs.Get("totalCurrentAssets")
	cl, okCL := bs.Get("totalCurrentLiabilities")
	caPrior, okCAPrior := bsPrior.Get("totalCurrentAssets")
	clPrior, okCLPrior := bsPrior.Get("totalCurrentLiabilities")
	okCR := okCA && okCL && okCAPrior && okCLPrior && cl != 0 && clPrior != 0
	award("improving_current_ratio", okCR, okCR && ca/cl > caPrior/clPrior)

	shares, okSh := is.Get("weightedAverageShsOut")
	sharesPrior, okShPrior := isPrior.Get("weightedAverageShsOut")
	okShares := okSh && okShPrior
	award("no_new_shares_issued", okShares, okShares && shares <= sharesPrior)

	gp, okGP := is.Get("grossProfit")
	rev, okRev := is.Get("revenue")
	gpPrior, okGPPrior := isPrior.Get("grossProfit")
	revPrior, okRevPrior := isPrior.Get("revenue")
	okGM := okGP && okRev && okGPPrior && okRevPrior && rev != 0 && revPrior != 0
	award("improving_gross_margin", okGM, okGM && gp/rev > gpPrior/revPrior)

	okAT := okRev && okRevPrior && okTA && okTAPrior && ta != 0 && taPrior != 0
	award("improving_asset_turnover", okAT, okAT && rev/ta > revPrior/taPrior)

	res.Incomplete = len(res.MissingComponents) > 0
	return res
}
