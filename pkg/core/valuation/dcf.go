package valuation

import (
	"context"

	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

// Engine derives valuation model inputs from stored statements.
type Engine struct {
	store store.StatementStore
}

// NewEngine creates a valuation engine over the statement store.
func NewEngine(s store.StatementStore) *Engine {
	return &Engine{store: s}
}

// DCFInput encapsulates the inputs for a two-stage discounted cash flow.
type DCFInput struct {
	BaseFCF           float64
	GrowthRate        float64 // stage-one annual growth
	Years             int     // stage-one horizon
	WACC              float64
	TerminalGrowth    float64
	SharesOutstanding float64
	NetDebt           float64
}

// DCFResult holds the valuation outputs.
type DCFResult struct {
	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
	SharePrice      float64 `json:"share_price"`
	PVStageOne      float64 `json:"pv_stage_one"`
	PVTerminal      float64 `json:"pv_terminal"`
}

// CalculateDCF performs a standard two-stage DCF: stage-one cash flows grown
// and discounted year by year, then a Gordon-growth terminal value. The
// terminal value is zero when WACC does not exceed terminal growth.
func CalculateDCF(input DCFInput) DCFResult {
	fcf := input.BaseFCF
	discount := 1.0
	var pvStageOne float64

	for i := 0; i < input.Years; i++ {
		fcf *= 1 + input.GrowthRate
		discount /= 1 + input.WACC
		pvStageOne += fcf * discount
	}

	tv := 0.0
	if input.WACC > input.TerminalGrowth {
		tv = fcf * (1 + input.TerminalGrowth) / (input.WACC - input.TerminalGrowth)
	}
	pvTerminal := tv * discount

	ev := pvStageOne + pvTerminal
	eq := ev - input.NetDebt
	sharePrice := 0.0
	if input.SharesOutstanding != 0 {
		sharePrice = eq / input.SharesOutstanding
	}

	return DCFResult{
		EnterpriseValue: ev,
		EquityValue:     eq,
		SharePrice:      sharePrice,
		PVStageOne:      pvStageOne,
		PVTerminal:      pvTerminal,
	}
}

// DCFFromStatements builds the DCF base inputs from the stored statements at
// the fiscal date: base FCF = operating cash flow - capital expenditure, net
// debt = total debt - cash. A missing statement or field makes the valuation
// undefined.
func (e *Engine) DCFFromStatements(ctx context.Context, ticker string, period models.PeriodType, date string, growthRate float64, years int, wacc, terminalGrowth float64) *DCFResult {
	cf, err := e.store.GetStatement(ctx, ticker, models.KindCashFlow, period, date)
	if err != nil {
		return nil
	}
	bs, err := e.store.GetStatement(ctx, ticker, models.KindBalanceSheet, period, date)
	if err != nil {
		return nil
	}
	is, err := e.store.GetStatement(ctx, ticker, models.KindIncomeStatement, period, date)
	if err != nil {
		return nil
	}

	ocf, ok1 := cf.Get("operatingCashFlow")
	capex, ok2 := cf.Get("capitalExpenditure")
	debt, ok3 := bs.Get("totalDebt")
	cash, ok4 := bs.Get("cashAndCashEquivalents")
	shares, ok5 := is.Get("weightedAverageShsOut")
	if !(ok1 && ok2 && ok3 && ok4 && ok5) || years <= 0 || shares <= 0 {
		return nil
	}

	res := CalculateDCF(DCFInput{
		BaseFCF:           ocf - capex,
		GrowthRate:        growthRate,
		Years:             years,
		WACC:              wacc,
		TerminalGrowth:    terminalGrowth,
		SharesOutstanding: shares,
		NetDebt:           debt - cash,
	})
	return &res
}
