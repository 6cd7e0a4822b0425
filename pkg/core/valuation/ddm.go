package valuation

import (
	"context"
	"math"

	"fundamental_audit/pkg/models"
)

// GordonDDM values a stable dividend payer: V = D1 / (r - g) with
// D1 = current dividend per share grown one period. Undefined when the
// required rate does not exceed growth or dividends are missing.
func (e *Engine) GordonDDM(ctx context.Context, ticker string, period models.PeriodType, date string, requiredRate, growth float64) *float64 {
	if requiredRate <= growth {
		return nil
	}
	cf, err := e.store.GetStatement(ctx, ticker, models.KindCashFlow, period, date)
	if err != nil {
		return nil
	}
	is, err := e.store.GetStatement(ctx, ticker, models.KindIncomeStatement, period, date)
	if err != nil {
		return nil
	}

	dividends, ok1 := cf.Get("dividendsPaid")
	shares, ok2 := is.Get("weightedAverageShsOut")
	if !ok1 || !ok2 || shares <= 0 {
		return nil
	}

	// dividendsPaid is reported as a signed outflow.
	dps := math.Abs(dividends) / shares
	v := dps * (1 + growth) / (requiredRate - growth)
	return &v
}

// GrahamNumber computes sqrt(22.5 x EPS x book value per share), the classic
// upper bound for a defensive purchase price. Undefined when EPS or book
// value per share is missing or non-positive.
func (e *Engine) GrahamNumber(ctx context.Context, ticker string, period models.PeriodType, date string) *float64 {
	bs, err := e.store.GetStatement(ctx, ticker, models.KindBalanceSheet, period, date)
	if err != nil {
		return nil
	}
	is, err := e.store.GetStatement(ctx, ticker, models.KindIncomeStatement, period, date)
	if err != nil {
		return nil
	}

	ni, ok1 := is.Get("netIncome")
	equity, ok2 := bs.Get("totalShareholdersEquity")
	shares, ok3 := is.Get("weightedAverageShsOut")
	if !(ok1 && ok2 && ok3) || shares <= 0 {
		return nil
	}

	eps := ni / shares
	bvps := equity / shares
	if eps <= 0 || bvps <= 0 {
		return nil
	}
	v := math.Sqrt(22.5 * eps * bvps)
	return &v
}
