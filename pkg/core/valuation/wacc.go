// Package valuation provides the intrinsic-value models layered on top of
// the statement store: cost of capital, a two-stage discounted cash flow,
// and the dividend-based models.
package valuation

import (
	"context"

	"fundamental_audit/pkg/models"
)

// WACCInput is the cost-of-capital assumption set. DebtToEquityRatio is the
// target capital structure; zero means "derive it from the balance sheet"
// when going through WACCFromStatements.
type WACCInput struct {
	UnleveredBeta     float64 `json:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate"`
	DebtToEquityRatio float64 `json:"debt_to_equity"`
}

// WACCResult breaks the discount rate into its CAPM and leverage parts.
type WACCResult struct {
	LeveredBeta  float64 `json:"levered_beta"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after-tax
	WACC         float64 `json:"wacc"`
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
}

// CalculateWACC re-levers beta for the capital structure (Hamada), prices
// equity through CAPM, applies the tax shield to the debt cost and blends the
// two by the weights implied by D/E.
func CalculateWACC(in WACCInput) WACCResult {
	beta := in.UnleveredBeta * (1 + (1-in.TaxRate)*in.DebtToEquityRatio)
	costEquity := in.RiskFreeRate + beta*in.MarketRiskPremium
	costDebt := in.PreTaxCostOfDebt * (1 - in.TaxRate)

	weightDebt := in.DebtToEquityRatio / (1 + in.DebtToEquityRatio)
	weightEquity := 1 - weightDebt

	return WACCResult{
		LeveredBeta:  beta,
		CostOfEquity: costEquity,
		CostOfDebt:   costDebt,
		WACC:         costEquity*weightEquity + costDebt*weightDebt,
		WeightDebt:   weightDebt,
		WeightEquity: weightEquity,
	}
}

// WACCFromStatements fills the leverage term from the balance sheet at the
// fiscal date (total debt over shareholders' equity) and computes the cost of
// capital. A caller-supplied DebtToEquityRatio takes precedence over the
// derived one. Undefined when no leverage was given and the balance sheet
// cannot support one (missing fields, non-positive equity, negative debt).
func (e *Engine) WACCFromStatements(ctx context.Context, ticker string, period models.PeriodType, date string, in WACCInput) *WACCResult {
	if in.DebtToEquityRatio == 0 {
		bs, err := e.store.GetStatement(ctx, ticker, models.KindBalanceSheet, period, date)
		if err != nil {
			return nil
		}
		debt, ok1 := bs.Get("totalDebt")
		equity, ok2 := bs.Get("totalShareholdersEquity")
		if !ok1 || !ok2 || equity <= 0 || debt < 0 {
			return nil
		}
		in.DebtToEquityRatio = debt / equity
	}
	res := CalculateWACC(in)
	return &res
}
