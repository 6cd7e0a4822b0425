package ratio

import (
	"context"
	"sort"

	"fundamental_audit/pkg/models"
)

// ComputeFunc is the shape of every catalog entry.
type ComputeFunc func(e *Engine, ctx context.Context, ticker string, period models.PeriodType, date string) Result

// Registry maps canonical ratio names to their compute functions. It is built
// once at package load; validation, peer comparison and trend analysis all
// dispatch through it instead of resolving method names at runtime.
var Registry = map[string]ComputeFunc{
	// Liquidity
	"currentRatio": (*Engine).CurrentRatio,
	"quickRatio":   (*Engine).QuickRatio,
	"cashRatio":    (*Engine).CashRatio,

	// Profitability
	"grossProfitMargin":       (*Engine).GrossProfitMargin,
	"operatingProfitMargin":   (*Engine).OperatingProfitMargin,
	"netProfitMargin":         (*Engine).NetProfitMargin,
	"returnOnAssets":          (*Engine).ReturnOnAssets,
	"returnOnEquity":          (*Engine).ReturnOnEquity,
	"returnOnCapitalEmployed": (*Engine).ReturnOnCapitalEmployed,
	"assetTurnover":           (*Engine).AssetTurnover,
	"inventoryTurnover":       (*Engine).InventoryTurnover,
	"receivablesTurnover":     (*Engine).ReceivablesTurnover,
	"payablesTurnover":        (*Engine).PayablesTurnover,
	"fixedAssetTurnover":      (*Engine).FixedAssetTurnover,

	// Leverage
	"debtRatio":                    (*Engine).DebtRatio,
	"debtEquityRatio":              (*Engine).DebtEquityRatio,
	"longTermDebtToCapitalization": (*Engine).LongTermDebtToCapitalization,
	"interestCoverage":             (*Engine).InterestCoverage,
	"cashFlowToDebtRatio":          (*Engine).CashFlowToDebtRatio,

	// Cash flow
	"operatingCashFlowPerShare":          (*Engine).OperatingCashFlowPerShare,
	"freeCashFlowPerShare":               (*Engine).FreeCashFlowPerShare,
	"payoutRatio":                        (*Engine).PayoutRatio,
	"freeCashFlowYield":                  (*Engine).FreeCashFlowYield,
	"operatingCashFlowSalesRatio":        (*Engine).OperatingCashFlowSalesRatio,
	"freeCashFlowOperatingCashFlowRatio": (*Engine).FreeCashFlowOperatingCashFlowRatio,

	// Valuation multiples
	"priceEarningsRatio": (*Engine).PriceEarningsRatio,
	"priceToBookRatio":   (*Engine).PriceToBookRatio,
	"priceToSalesRatio":  (*Engine).PriceToSalesRatio,
	"dividendYield":      (*Engine).DividendYield,
}

// ComputeByName runs the named catalog ratio; ok is false for unknown names.
func (e *Engine) ComputeByName(ctx context.Context, name, ticker string, period models.PeriodType, date string) (Result, bool) {
	fn, ok := Registry[name]
	if !ok {
		return Result{}, false
	}
	return fn(e, ctx, ticker, period, date), true
}

// Names returns the canonical ratio names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
