package score

import (
	"context"
	"math"

	"fundamental_audit/pkg/models"
)

// DuPontResult decomposes return on equity into its three factors and checks
// the identity against the directly computed ROE.
type DuPontResult struct {
	NetProfitMargin  *float64 `json:"net_profit_margin"`
	AssetTurnover    *float64 `json:"asset_turnover"`
	DebtToEquity     *float64 `json:"debt_to_equity"`
	EquityMultiplier *float64 `json:"equity_multiplier"`

	CalculatedROE        *float64 `json:"calculated_roe"`
	DirectROE            *float64 `json:"phase3_roe"`
	Match                *bool    `json:"match"`
	PercentageDifference *float64 `json:"percentage_difference"`

	MissingComponents []string `json:"missing_components"`
	Incomplete        bool     `json:"incomplete"`
}

// dupontMatchTolerance is the absolute tolerance for the identity check.
const dupontMatchTolerance = 1e-6

// DuPont computes ROE = net profit margin x asset turnover x equity multiplier
// with equity multiplier = 1 + debt-to-equity. Undefined factors are listed in
// MissingComponents; the composite ROE is only produced when all three factors
// are present.
func (e *Engine) DuPont(ctx context.Context, ticker string, period models.PeriodType, date string) *DuPontResult {
	res := &DuPontResult{}

	npm := e.ratios.NetProfitMargin(ctx, ticker, period, date)
	at := e.ratios.AssetTurnover(ctx, ticker, period, date)
	dte := e.ratios.DebtEquityRatio(ctx, ticker, period, date)
	direct := e.ratios.ReturnOnEquity(ctx, ticker, period, date)

	if npm.Defined() {
		res.NetProfitMargin = npm.Value
	} else {
		res.MissingComponents = append(res.MissingComponents, "net_profit_margin")
	}
	if at.Defined() {
		res.AssetTurnover = at.Value
	} else {
		res.MissingComponents = append(res.MissingComponents, "asset_turnover")
	}
	if dte.Defined() {
		res.DebtToEquity = dte.Value
		res.EquityMultiplier = ptr(1 + *dte.Value)
	} else {
		res.MissingComponents = append(res.MissingComponents, "debt_to_equity", "equity_multiplier")
	}
	if direct.Defined() {
		res.DirectROE = direct.Value
	}

	if res.NetProfitMargin != nil && res.AssetTurnover != nil && res.EquityMultiplier != nil {
		res.CalculatedROE = ptr(*res.NetProfitMargin * *res.AssetTurnover * *res.EquityMultiplier)
	}

	if res.CalculatedROE != nil && res.DirectROE != nil {
		match := math.Abs(*res.CalculatedROE-*res.DirectROE) < dupontMatchTolerance
		res.Match = &match
		if *res.DirectROE != 0 {
			res.PercentageDifference = ptr((*res.CalculatedROE - *res.DirectROE) / *res.DirectROE * 100)
		}
	}

	res.Incomplete = len(res.MissingComponents) > 0
	return res
}

// ExtendedDuPontResult further splits profit margin into its operating, tax
// and interest components.
type ExtendedDuPontResult struct {
	DuPontResult

	OperatingMargin *float64 `json:"operating_margin"`
	TaxBurden       *float64 `json:"tax_burden"`      // net income / EBT
	InterestBurden  *float64 `json:"interest_burden"` // EBT / operating income
	EBT             *float64 `json:"ebt"`
}

// ExtendedDuPont adds the five-factor decomposition. EBT is derived as
// operating income minus interest expense; when interest expense is not
// reported the operating income stands in for EBT.
func (e *Engine) ExtendedDuPont(ctx context.Context, ticker string, period models.PeriodType, date string) *ExtendedDuPontResult {
	base := e.DuPont(ctx, ticker, period, date)
	res := &ExtendedDuPontResult{DuPontResult: *base}

	om := e.ratios.OperatingProfitMargin(ctx, ticker, period, date)
	if om.Defined() {
		res.OperatingMargin = om.Value
	} else {
		res.MissingComponents = append(res.MissingComponents, "operating_margin")
	}

	is := e.ratios.Income(ctx, ticker, period, date)
	ni, okNI := is.Get("netIncome")
	oi, okOI := is.Get("operatingIncome")
	if okOI {
		ebt := oi
		if interest, ok := is.Get("interestExpense"); ok {
			ebt = oi - interest
		}
		res.EBT = ptr(ebt)

		if okNI && ebt != 0 {
			res.TaxBurden = ptr(ni / ebt)
		} else {
			res.MissingComponents = append(res.MissingComponents, "tax_burden")
		}
		if oi != 0 {
			res.InterestBurden = ptr(ebt / oi)
		} else {
			res.MissingComponents = append(res.MissingComponents, "interest_burden")
		}
	} else {
		res.MissingComponents = append(res.MissingComponents, "ebt", "tax_burden", "interest_burden")
	}

	res.Incomplete = len(res.MissingComponents) > 0
	return res
}
