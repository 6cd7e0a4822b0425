package ratio

import (
	"context"
	"math"

	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

// Engine computes the fixed ratio catalog for a (ticker, period, fiscal date)
// key, loading whatever statements each formula needs through the store.
type Engine struct {
	store store.StatementStore
}

// NewEngine creates a ratio engine over the given statement store.
func NewEngine(s store.StatementStore) *Engine {
	return &Engine{store: s}
}

// Store exposes the underlying statement store to sibling engines.
func (e *Engine) Store() store.StatementStore {
	return e.store
}

// =============================================================================
// STATEMENT LOOKUP
// Any lookup failure (unknown ticker, absent statement) degrades to nil and
// the ratio comes back undefined.
// =============================================================================

// Balance returns the balance sheet for the key, or nil.
func (e *Engine) Balance(ctx context.Context, ticker string, period models.PeriodType, date string) *models.StatementSnapshot {
	snap, err := e.store.GetStatement(ctx, ticker, models.KindBalanceSheet, period, date)
	if err != nil {
		return nil
	}
	return snap
}

// Income returns the income statement for the key, or nil.
func (e *Engine) Income(ctx context.Context, ticker string, period models.PeriodType, date string) *models.StatementSnapshot {
	snap, err := e.store.GetStatement(ctx, ticker, models.KindIncomeStatement, period, date)
	if err != nil {
		return nil
	}
	return snap
}

// CashFlow returns the cash-flow statement for the key, or nil.
func (e *Engine) CashFlow(ctx context.Context, ticker string, period models.PeriodType, date string) *models.StatementSnapshot {
	snap, err := e.store.GetStatement(ctx, ticker, models.KindCashFlow, period, date)
	if err != nil {
		return nil
	}
	return snap
}

// ClosePriceAt returns the close at or before the date.
func (e *Engine) ClosePriceAt(ctx context.Context, ticker, date string) (float64, bool) {
	p, err := e.store.GetPriceAtDate(ctx, ticker, date)
	if err != nil {
		return 0, false
	}
	return p.Close, true
}

// fields extracts the named fields from a snapshot; ok is false when the
// snapshot is nil or any field is absent.
func fields(s *models.StatementSnapshot, names ...string) ([]float64, bool) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, ok := s.Get(name)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// =============================================================================
// LIQUIDITY
// =============================================================================

func currentRatioOf(bs *models.StatementSnapshot) Result {
	f, ok := fields(bs, "totalCurrentAssets", "totalCurrentLiabilities")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 1,
		"good short-term liquidity: current assets cover current liabilities",
		"weak short-term liquidity: current liabilities exceed current assets"))
}

func quickRatioOf(bs *models.StatementSnapshot) Result {
	f, ok := fields(bs, "totalCurrentAssets", "inventory", "totalCurrentLiabilities")
	if !ok || f[2] == 0 {
		return undefined()
	}
	v := (f[0] - f[1]) / f[2]
	return defined(v, pick(v, 1,
		"liquid assets cover current liabilities without selling inventory",
		"reliant on inventory to meet short-term obligations"))
}

func cashRatioOf(bs *models.StatementSnapshot) Result {
	f, ok := fields(bs, "cashAndCashEquivalents", "totalCurrentLiabilities")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 0.5,
		"strong cash buffer against current liabilities",
		"thin cash buffer against current liabilities"))
}

// =============================================================================
// PROFITABILITY
// =============================================================================

func grossProfitMarginOf(is *models.StatementSnapshot) Result {
	f, ok := fields(is, "grossProfit", "revenue")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 0.4, "strong pricing power", "commodity-level gross margin"))
}

func operatingProfitMarginOf(is *models.StatementSnapshot) Result {
	f, ok := fields(is, "operatingIncome", "revenue")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 0.15, "healthy operating profitability", "thin operating profitability"))
}

func netProfitMarginOf(is *models.StatementSnapshot) Result {
	f, ok := fields(is, "netIncome", "revenue")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 0.1, "strong bottom-line conversion of sales", "weak bottom-line conversion of sales"))
}

func returnOnAssetsOf(is, bs *models.StatementSnapshot) Result {
	ni, ok1 := is.Get("netIncome")
	ta, ok2 := bs.Get("totalAssets")
	if !ok1 || !ok2 || ta == 0 {
		return undefined()
	}
	v := ni / ta
	return defined(v, pick(v, 0.05, "efficient use of the asset base", "low return on the asset base"))
}

func returnOnEquityOf(is, bs *models.StatementSnapshot) Result {
	ni, ok1 := is.Get("netIncome")
	eq, ok2 := bs.Get("totalShareholdersEquity")
	if !ok1 || !ok2 || eq == 0 {
		return undefined()
	}
	v := ni / eq
	return defined(v, pick(v, 0.15, "attractive return on shareholder capital", "modest return on shareholder capital"))
}

// Capital employed must be strictly positive; a non-positive base makes the
// ratio meaningless rather than merely infinite.
func returnOnCapitalEmployedOf(is, bs *models.StatementSnapshot) Result {
	oi, ok1 := is.Get("operatingIncome")
	f, ok2 := fields(bs, "totalAssets", "totalCurrentLiabilities")
	if !ok1 || !ok2 {
		return undefined()
	}
	capitalEmployed := f[0] - f[1]
	if capitalEmployed <= 0 {
		return undefined()
	}
	v := oi / capitalEmployed
	return defined(v, pick(v, 0.12, "earns well above a typical cost of capital", "earns near or below a typical cost of capital"))
}

func assetTurnoverOf(is, bs *models.StatementSnapshot) Result {
	rev, ok1 := is.Get("revenue")
	ta, ok2 := bs.Get("totalAssets")
	if !ok1 || !ok2 || ta == 0 {
		return undefined()
	}
	v := rev / ta
	return defined(v, pick(v, 1, "asset-light revenue generation", "capital-intensive revenue generation"))
}

func inventoryTurnoverOf(is, bs *models.StatementSnapshot) Result {
	cogs, ok1 := is.Get("costOfRevenue")
	inv, ok2 := bs.Get("inventory")
	if !ok1 || !ok2 || inv == 0 {
		return undefined()
	}
	v := cogs / inv
	return defined(v, pick(v, 5, "inventory moves quickly", "inventory turns over slowly"))
}

func receivablesTurnoverOf(is, bs *models.StatementSnapshot) Result {
	rev, ok1 := is.Get("revenue")
	rec, ok2 := bs.Get("netReceivables")
	if !ok1 || !ok2 || rec == 0 {
		return undefined()
	}
	v := rev / rec
	return defined(v, pick(v, 6, "receivables are collected promptly", "receivables are collected slowly"))
}

func payablesTurnoverOf(is, bs *models.StatementSnapshot) Result {
	cogs, ok1 := is.Get("costOfRevenue")
	ap, ok2 := bs.Get("accountPayables")
	if !ok1 || !ok2 || ap == 0 {
		return undefined()
	}
	v := cogs / ap
	return defined(v, pick(v, 4, "suppliers are paid quickly", "payment to suppliers is stretched"))
}

func fixedAssetTurnoverOf(is, bs *models.StatementSnapshot) Result {
	rev, ok1 := is.Get("revenue")
	ppe, ok2 := bs.Get("propertyPlantEquipmentNet")
	if !ok1 || !ok2 || ppe == 0 {
		return undefined()
	}
	v := rev / ppe
	return defined(v, pick(v, 2, "productive fixed-asset base", "heavy fixed-asset base relative to sales"))
}

// =============================================================================
// LEVERAGE
// =============================================================================

func debtRatioOf(bs *models.StatementSnapshot) Result {
	f, ok := fields(bs, "totalLiabilities", "totalAssets")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 0.5, "asset base is majority debt-financed", "conservative balance-sheet leverage"))
}

func debtEquityRatioOf(bs *models.StatementSnapshot) Result {
	f, ok := fields(bs, "totalLiabilities", "totalShareholdersEquity")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 1, "liabilities exceed shareholder equity", "equity cushion exceeds liabilities"))
}

func longTermDebtToCapitalizationOf(bs *models.StatementSnapshot) Result {
	f, ok := fields(bs, "longTermDebt", "totalShareholdersEquity")
	if !ok {
		return undefined()
	}
	capitalization := f[0] + f[1]
	if capitalization == 0 {
		return undefined()
	}
	v := f[0] / capitalization
	return defined(v, pick(v, 0.4, "long-term debt dominates the capital structure", "long-term debt is a minor share of capitalization"))
}

func interestCoverageOf(is *models.StatementSnapshot) Result {
	f, ok := fields(is, "operatingIncome", "interestExpense")
	if !ok || f[1] == 0 {
		return undefined()
	}
	v := f[0] / f[1]
	return defined(v, pick(v, 3, "operating income comfortably covers interest", "interest costs strain operating income"))
}

func cashFlowToDebtRatioOf(cf, bs *models.StatementSnapshot) Result {
	ocf, ok1 := cf.Get("operatingCashFlow")
	debt, ok2 := bs.Get("totalDebt")
	if !ok1 || !ok2 || debt == 0 {
		return undefined()
	}
	v := ocf / debt
	return defined(v, pick(v, 0.2, "cash generation can service the debt load", "cash generation is small against the debt load"))
}

// =============================================================================
// CASH-FLOW PER SHARE FAMILY
// =============================================================================

func operatingCashFlowPerShareOf(cf, is *models.StatementSnapshot) Result {
	ocf, ok1 := cf.Get("operatingCashFlow")
	shares, ok2 := is.Get("weightedAverageShsOut")
	if !ok1 || !ok2 || shares == 0 {
		return undefined()
	}
	v := ocf / shares
	return defined(v, pick(v, 0, "positive operating cash generation per share", "operations consume cash per share"))
}

func freeCashFlowPerShareOf(cf, is *models.StatementSnapshot) Result {
	f, ok1 := fields(cf, "operatingCashFlow", "capitalExpenditure")
	shares, ok2 := is.Get("weightedAverageShsOut")
	if !ok1 || !ok2 || shares == 0 {
		return undefined()
	}
	v := (f[0] - f[1]) / shares
	return defined(v, pick(v, 0, "positive free cash flow per share", "negative free cash flow per share"))
}

// Dividends paid are recorded as an outflow by most filers; the magnitude is
// what the payout ratio measures.
func payoutRatioOf(cf, is *models.StatementSnapshot) Result {
	div, ok1 := cf.Get("dividendsPaid")
	ni, ok2 := is.Get("netIncome")
	if !ok1 || !ok2 || ni == 0 {
		return undefined()
	}
	v := math.Abs(div) / ni
	return defined(v, pick(v, 0.6, "payout consumes most of earnings", "payout leaves room for reinvestment"))
}

func freeCashFlowYieldOf(cf, is *models.StatementSnapshot, price float64, havePrice bool) Result {
	f, ok1 := fields(cf, "operatingCashFlow", "capitalExpenditure")
	shares, ok2 := is.Get("weightedAverageShsOut")
	if !ok1 || !ok2 || !havePrice {
		return undefined()
	}
	marketCap := price * shares
	if marketCap == 0 {
		return undefined()
	}
	v := (f[0] - f[1]) / marketCap
	return defined(v, pick(v, 0.05, "attractive free-cash-flow yield at the current price", "low free-cash-flow yield at the current price"))
}

func operatingCashFlowSalesRatioOf(cf, is *models.StatementSnapshot) Result {
	ocf, ok1 := cf.Get("operatingCashFlow")
	rev, ok2 := is.Get("revenue")
	if !ok1 || !ok2 || rev == 0 {
		return undefined()
	}
	v := ocf / rev
	return defined(v, pick(v, 0.1, "sales convert well into operating cash", "sales convert poorly into operating cash"))
}

func freeCashFlowOperatingCashFlowRatioOf(cf *models.StatementSnapshot) Result {
	f, ok := fields(cf, "operatingCashFlow", "capitalExpenditure")
	if !ok || f[0] == 0 {
		return undefined()
	}
	v := (f[0] - f[1]) / f[0]
	return defined(v, pick(v, 0.5, "capital spending leaves most operating cash free", "capital spending absorbs most operating cash"))
}

// =============================================================================
// VALUATION MULTIPLES
// =============================================================================

func priceEarningsRatioOf(is *models.StatementSnapshot, price float64, havePrice bool) Result {
	f, ok := fields(is, "netIncome", "weightedAverageShsOut")
	if !ok || !havePrice || f[1] == 0 {
		return undefined()
	}
	eps := f[0] / f[1]
	if eps == 0 {
		return undefined()
	}
	v := price / eps
	return defined(v, pick(v, 25, "rich earnings multiple", "earnings multiple within conventional bounds"))
}

func priceToBookRatioOf(is, bs *models.StatementSnapshot, price float64, havePrice bool) Result {
	eq, ok1 := bs.Get("totalShareholdersEquity")
	shares, ok2 := is.Get("weightedAverageShsOut")
	if !ok1 || !ok2 || !havePrice || shares == 0 {
		return undefined()
	}
	bvps := eq / shares
	if bvps == 0 {
		return undefined()
	}
	v := price / bvps
	return defined(v, pick(v, 3, "priced well above book value", "priced near or below book value"))
}

func priceToSalesRatioOf(is *models.StatementSnapshot, price float64, havePrice bool) Result {
	f, ok := fields(is, "revenue", "weightedAverageShsOut")
	if !ok || !havePrice || f[1] == 0 {
		return undefined()
	}
	salesPerShare := f[0] / f[1]
	if salesPerShare == 0 {
		return undefined()
	}
	v := price / salesPerShare
	return defined(v, pick(v, 2, "rich sales multiple", "sales multiple within conventional bounds"))
}

func dividendYieldOf(cf, is *models.StatementSnapshot, price float64, havePrice bool) Result {
	div, ok1 := cf.Get("dividendsPaid")
	shares, ok2 := is.Get("weightedAverageShsOut")
	if !ok1 || !ok2 || !havePrice || shares == 0 || price == 0 {
		return undefined()
	}
	v := (math.Abs(div) / shares) / price
	return defined(v, pick(v, 0.03, "meaningful dividend income at the current price", "little dividend income at the current price"))
}

// =============================================================================
// ENGINE METHODS
// One method per catalog entry; every method follows the same contract:
// missing statement, missing field or zero denominator means undefined.
// =============================================================================

func (e *Engine) CurrentRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return currentRatioOf(e.Balance(ctx, ticker, period, date))
}

func (e *Engine) QuickRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return quickRatioOf(e.Balance(ctx, ticker, period, date))
}

func (e *Engine) CashRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return cashRatioOf(e.Balance(ctx, ticker, period, date))
}

func (e *Engine) GrossProfitMargin(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return grossProfitMarginOf(e.Income(ctx, ticker, period, date))
}

func (e *Engine) OperatingProfitMargin(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return operatingProfitMarginOf(e.Income(ctx, ticker, period, date))
}

func (e *Engine) NetProfitMargin(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return netProfitMarginOf(e.Income(ctx, ticker, period, date))
}

func (e *Engine) ReturnOnAssets(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return returnOnAssetsOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) ReturnOnEquity(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return returnOnEquityOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) ReturnOnCapitalEmployed(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return returnOnCapitalEmployedOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) AssetTurnover(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return assetTurnoverOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) InventoryTurnover(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return inventoryTurnoverOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) ReceivablesTurnover(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return receivablesTurnoverOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) PayablesTurnover(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return payablesTurnoverOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) FixedAssetTurnover(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return fixedAssetTurnoverOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) DebtRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return debtRatioOf(e.Balance(ctx, ticker, period, date))
}

func (e *Engine) DebtEquityRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return debtEquityRatioOf(e.Balance(ctx, ticker, period, date))
}

func (e *Engine) LongTermDebtToCapitalization(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return longTermDebtToCapitalizationOf(e.Balance(ctx, ticker, period, date))
}

func (e *Engine) InterestCoverage(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return interestCoverageOf(e.Income(ctx, ticker, period, date))
}

func (e *Engine) CashFlowToDebtRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return cashFlowToDebtRatioOf(e.CashFlow(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date))
}

func (e *Engine) OperatingCashFlowPerShare(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return operatingCashFlowPerShareOf(e.CashFlow(ctx, ticker, period, date), e.Income(ctx, ticker, period, date))
}

func (e *Engine) FreeCashFlowPerShare(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return freeCashFlowPerShareOf(e.CashFlow(ctx, ticker, period, date), e.Income(ctx, ticker, period, date))
}

func (e *Engine) PayoutRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return payoutRatioOf(e.CashFlow(ctx, ticker, period, date), e.Income(ctx, ticker, period, date))
}

func (e *Engine) FreeCashFlowYield(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	price, ok := e.ClosePriceAt(ctx, ticker, date)
	return freeCashFlowYieldOf(e.CashFlow(ctx, ticker, period, date), e.Income(ctx, ticker, period, date), price, ok)
}

func (e *Engine) OperatingCashFlowSalesRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return operatingCashFlowSalesRatioOf(e.CashFlow(ctx, ticker, period, date), e.Income(ctx, ticker, period, date))
}

func (e *Engine) FreeCashFlowOperatingCashFlowRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	return freeCashFlowOperatingCashFlowRatioOf(e.CashFlow(ctx, ticker, period, date))
}

func (e *Engine) PriceEarningsRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	price, ok := e.ClosePriceAt(ctx, ticker, date)
	return priceEarningsRatioOf(e.Income(ctx, ticker, period, date), price, ok)
}

func (e *Engine) PriceToBookRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	price, ok := e.ClosePriceAt(ctx, ticker, date)
	return priceToBookRatioOf(e.Income(ctx, ticker, period, date), e.Balance(ctx, ticker, period, date), price, ok)
}

func (e *Engine) PriceToSalesRatio(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	price, ok := e.ClosePriceAt(ctx, ticker, date)
	return priceToSalesRatioOf(e.Income(ctx, ticker, period, date), price, ok)
}

func (e *Engine) DividendYield(ctx context.Context, ticker string, period models.PeriodType, date string) Result {
	price, ok := e.ClosePriceAt(ctx, ticker, date)
	return dividendYieldOf(e.CashFlow(ctx, ticker, period, date), e.Income(ctx, ticker, period, date), price, ok)
}
