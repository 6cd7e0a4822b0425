// Package score implements the composite scoring suite: DuPont decompositions,
// Altman Z, Beneish M, Ohlson O, Piotroski F, EVA, Merton distance-to-default,
// the credit-rating scorecard, Value-at-Risk and Benford screening.
//
// Failure semantics are shared by every score: a missing prerequisite makes
// the whole score undefined (a nil result or nil score field), never an error,
// and missing sub-components are enumerated instead of silently dropped.
package score

import (
	"math"

	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/store"
)

// Engine computes composite scores on top of the ratio catalog.
type Engine struct {
	store  store.StatementStore
	ratios *ratio.Engine
}

// NewEngine creates a score engine sharing the ratio engine's store.
func NewEngine(ratios *ratio.Engine) *Engine {
	return &Engine{store: ratios.Store(), ratios: ratios}
}

// Ratios exposes the underlying ratio engine.
func (e *Engine) Ratios() *ratio.Engine {
	return e.ratios
}

// =============================================================================
// SHARED NUMERIC HELPERS
// =============================================================================

// Float returns a pointer to v, for optional parameter overrides.
func Float(v float64) *float64 {
	return &v
}

func ptr(v float64) *float64 {
	return &v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 estimator used for return volatility.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// percentile returns the q-quantile (0..1) of the values by nearest-rank on
// a sorted copy's index floor(q*n), clamped to the valid range.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normQuantile inverts the standard normal CDF using Acklam's rational
// approximation (relative error below 1.15e-9 across (0,1)).
func normQuantile(p float64) float64 {
	if p <= 0 || p >= 1 {
		return math.NaN()
	}

	a := [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02, 1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02, 6.680131188771972e+01, -1.328068155288572e+01}
	c := [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00, -2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00, 3.754408661907416e+00}

	const pLow = 0.02425
	const pHigh = 1 - pLow

	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > pHigh:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}
