package score

import (
	"context"
	"math/rand"
	"sort"

	"fundamental_audit/pkg/models"
)

// Observation minimums for the two value-at-risk entry points. The fixed-95
// variant keeps the stricter one-trading-month-plus floor; the parameterized
// variant accepts shorter histories.
const (
	minReturnsFixed95 = 30
	minReturnsParam   = 11
)

// monteCarloDraws is the simulation size for the Monte Carlo estimate.
const monteCarloDraws = 10000

// VaRResult reports the three value-at-risk estimates side by side. All three
// are derived from the same mean and standard deviation of the observed daily
// returns; a positive VaR is a loss.
type VaRResult struct {
	Parametric float64 `json:"parametric_var"`
	Historical float64 `json:"historical_var"`
	MonteCarlo float64 `json:"monte_carlo_var"`

	Confidence   float64 `json:"confidence"`
	Mean         float64 `json:"mean_return"`
	StdDev       float64 `json:"std_dev"`
	Observations int     `json:"observations"`
}

// ComputeVaRFixed95 estimates 95% value at risk from the ticker's daily
// returns up to the fiscal date. Undefined with fewer than 30 returns.
func (e *Engine) ComputeVaRFixed95(ctx context.Context, ticker, date string) *VaRResult {
	returns := e.dailyReturnsUpTo(ctx, ticker, date)
	if len(returns) < minReturnsFixed95 {
		return nil
	}
	return varFromReturns(returns, 0.95)
}

// ComputeVaRParam estimates value at risk at a caller-chosen confidence level
// over the ticker's full return history. Undefined with fewer than 11 returns
// or a confidence outside (0, 1).
func (e *Engine) ComputeVaRParam(ctx context.Context, ticker string, confidence float64) *VaRResult {
	if confidence <= 0 || confidence >= 1 {
		return nil
	}
	returns := e.dailyReturnsUpTo(ctx, ticker, "")
	if len(returns) < minReturnsParam {
		return nil
	}
	return varFromReturns(returns, confidence)
}

func (e *Engine) dailyReturnsUpTo(ctx context.Context, ticker, upToDate string) []float64 {
	series, err := e.store.GetPriceSeries(ctx, ticker, 0, upToDate)
	if err != nil {
		return nil
	}
	return models.DailyReturns(series)
}

// varFromReturns computes the parametric, historical and Monte Carlo
// estimates from one shared mean/sigma fit of the observed returns.
func varFromReturns(returns []float64, confidence float64) *VaRResult {
	m := mean(returns)
	sigma := sampleStdDev(returns)
	tail := 1 - confidence

	z := normQuantile(tail)
	parametric := -(m + z*sigma)

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	historical := -percentile(sorted, tail)

	// Fixed seed keeps the simulation reproducible across runs.
	rng := rand.New(rand.NewSource(42))
	draws := make([]float64, monteCarloDraws)
	for i := range draws {
		draws[i] = m + sigma*rng.NormFloat64()
	}
	sort.Float64s(draws)
	monteCarlo := -percentile(draws, tail)

	return &VaRResult{
		Parametric:   parametric,
		Historical:   historical,
		MonteCarlo:   monteCarlo,
		Confidence:   confidence,
		Mean:         m,
		StdDev:       sigma,
		Observations: len(returns),
	}
}
