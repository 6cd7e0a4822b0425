package score

import (
	"context"

	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/models"
)

// RatingResult is the additive scorecard outcome: points per factor, the
// total in [0, 100] and the mapped letter rating.
type RatingResult struct {
	Score             int            `json:"score"`
	Rating            string         `json:"rating"`
	FactorPoints      map[string]int `json:"factor_points"`
	MissingComponents []string       `json:"missing_components"`
	Incomplete        bool           `json:"incomplete"`
}

// Scorecard point tiers. Six factors sum to at most 100 points:
//
//	return_on_assets      >= 0.10: 20 | >= 0.05: 15 | >= 0.02: 10 | >= 0: 5
//	return_on_equity      >= 0.20: 20 | >= 0.12: 15 | >= 0.06: 10 | >= 0: 5
//	debt_ratio            <= 0.30: 20 | <= 0.50: 15 | <= 0.70: 10 | <= 0.90: 5
//	interest_coverage     >= 8:    15 | >= 4:    10 | >= 2:     5 | >= 1: 2
//	current_ratio         >= 2.0:  10 | >= 1.5:   7 | >= 1.0:   5 | >= 0.8: 2
//	cash_flow_to_debt     >= 0.40: 15 | >= 0.25: 10 | >= 0.10:  5 | >= 0: 2
//
// An undefined factor scores zero and is listed in MissingComponents.
func pointsAscending(v float64, t1, t2, t3, t4 float64, p1, p2, p3, p4 int) int {
	switch {
	case v >= t1:
		return p1
	case v >= t2:
		return p2
	case v >= t3:
		return p3
	case v >= t4:
		return p4
	default:
		return 0
	}
}

func pointsDescending(v float64, t1, t2, t3, t4 float64, p1, p2, p3, p4 int) int {
	switch {
	case v <= t1:
		return p1
	case v <= t2:
		return p2
	case v <= t3:
		return p3
	case v <= t4:
		return p4
	default:
		return 0
	}
}

// ratingBands maps the total score to a letter rating, best band first.
var ratingBands = []struct {
	min    int
	rating string
}{
	{90, "AAA"},
	{80, "AA"},
	{70, "A"},
	{60, "BBB"},
	{50, "BB"},
	{40, "B"},
	{30, "CCC"},
	{20, "CC"},
	{10, "C"},
	{0, "D"},
}

// ClassifyRating maps a scorecard total to its letter band.
func ClassifyRating(score int) string {
	for _, b := range ratingBands {
		if score >= b.min {
			return b.rating
		}
	}
	return "D"
}

// CreditRating scores the six-factor scorecard and maps the total to a
// letter rating. The result is always non-nil; a ticker with no data at all
// scores 0 and rates D.
func (e *Engine) CreditRating(ctx context.Context, ticker string, period models.PeriodType, date string) *RatingResult {
	res := &RatingResult{FactorPoints: make(map[string]int)}

	factor := func(name string, r func(context.Context, string, models.PeriodType, string) ratio.Result, score func(float64) int) {
		result := r(ctx, ticker, period, date)
		if !result.Defined() {
			res.FactorPoints[name] = 0
			res.MissingComponents = append(res.MissingComponents, name)
			return
		}
		pts := score(*result.Value)
		res.FactorPoints[name] = pts
		res.Score += pts
	}

	factor("return_on_assets", e.ratios.ReturnOnAssets, func(v float64) int {
		return pointsAscending(v, 0.10, 0.05, 0.02, 0, 20, 15, 10, 5)
	})
	factor("return_on_equity", e.ratios.ReturnOnEquity, func(v float64) int {
		return pointsAscending(v, 0.20, 0.12, 0.06, 0, 20, 15, 10, 5)
	})
	factor("debt_ratio", e.ratios.DebtRatio, func(v float64) int {
		return pointsDescending(v, 0.30, 0.50, 0.70, 0.90, 20, 15, 10, 5)
	})
	factor("interest_coverage", e.ratios.InterestCoverage, func(v float64) int {
		return pointsAscending(v, 8, 4, 2, 1, 15, 10, 5, 2)
	})
	factor("current_ratio", e.ratios.CurrentRatio, func(v float64) int {
		return pointsAscending(v, 2.0, 1.5, 1.0, 0.8, 10, 7, 5, 2)
	})
	factor("cash_flow_to_debt", e.ratios.CashFlowToDebtRatio, func(v float64) int {
		return pointsAscending(v, 0.40, 0.25, 0.10, 0, 15, 10, 5, 2)
	})

	res.Rating = ClassifyRating(res.Score)
	res.Incomplete = len(res.MissingComponents) > 0
	return res
}
