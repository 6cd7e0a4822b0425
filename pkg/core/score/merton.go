package score

import (
	"context"
	"math"

	"fundamental_audit/pkg/models"
)

// Default structural-model assumptions.
const (
	DefaultRiskFreeRate = 0.04
	DefaultHorizonYears = 1.0
)

// MertonParams overrides the risk-free rate and horizon. Nil fields fall
// back to the defaults; an explicit zero rate is honored.
type MertonParams struct {
	RiskFreeRate *float64
	HorizonYears *float64
}

// MertonResult is the structural distance-to-default estimate.
type MertonResult struct {
	DistanceToDefault  float64 `json:"distance_to_default"`
	DefaultProbability float64 `json:"default_probability"`
	MarketValueEquity  float64 `json:"market_value_equity"`
	Debt               float64 `json:"debt"`
	Sigma              float64 `json:"sigma"`
	RiskFreeRate       float64 `json:"risk_free_rate"`
	HorizonYears       float64 `json:"horizon_years"`
}

// MertonDD computes the Merton distance to default
//
//	DD = [ln(MV_equity / Debt) + (rf - sigma^2/2) T] / (sigma sqrt(T))
//
// with sigma estimated as the standard deviation of the ticker's daily price
// returns up to the fiscal date, and default probability Phi(-DD). Undefined
// when fewer than two price bars exist, sigma is zero, the horizon is
// non-positive, or debt or shares outstanding are missing or non-positive.
func (e *Engine) MertonDD(ctx context.Context, ticker string, period models.PeriodType, date string, params MertonParams) *MertonResult {
	rf := DefaultRiskFreeRate
	if params.RiskFreeRate != nil {
		rf = *params.RiskFreeRate
	}
	horizon := DefaultHorizonYears
	if params.HorizonYears != nil {
		horizon = *params.HorizonYears
	}
	if horizon <= 0 {
		return nil
	}

	bs := e.ratios.Balance(ctx, ticker, period, date)
	is := e.ratios.Income(ctx, ticker, period, date)

	debt, okDebt := bs.Get("totalDebt")
	shares, okShares := is.Get("weightedAverageShsOut")
	price, okPrice := e.ratios.ClosePriceAt(ctx, ticker, date)
	if !okDebt || !okShares || !okPrice || debt <= 0 || shares <= 0 {
		return nil
	}

	series, err := e.store.GetPriceSeries(ctx, ticker, 0, date)
	if err != nil || len(series) < 2 {
		return nil
	}
	sigma := sampleStdDev(models.DailyReturns(series))
	if sigma <= 0 {
		return nil
	}

	mve := price * shares
	dd := (math.Log(mve/debt) + (rf-0.5*sigma*sigma)*horizon) / (sigma * math.Sqrt(horizon))

	return &MertonResult{
		DistanceToDefault:  dd,
		DefaultProbability: normCDF(-dd),
		MarketValueEquity:  mve,
		Debt:               debt,
		Sigma:              sigma,
		RiskFreeRate:       rf,
		HorizonYears:       horizon,
	}
}
