// Package validation cross-checks externally reported ratios against the
// ratio catalog, benchmarks a company against peer statistics, and analyzes
// ratio trends over a series of fiscal dates.
package validation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

// discrepancyThresholdPct flags a computed-vs-reported gap above one percent.
const discrepancyThresholdPct = 1.0

// Engine validates reported ratios against computed ones.
type Engine struct {
	store  store.StatementStore
	ratios *ratio.Engine
}

// NewEngine creates a validation engine sharing the ratio engine's store.
func NewEngine(ratios *ratio.Engine) *Engine {
	return &Engine{store: ratios.Store(), ratios: ratios}
}

// Record is the outcome of validating one reported ratio. Computed,
// PercentageDifference and DiscrepancyFlag are nil when the ratio could not
// be computed or the reported value is zero.
type Record struct {
	RatioName            string   `json:"ratio_name"`
	Reported             float64  `json:"reported"`
	Computed             *float64 `json:"computed"`
	Interpretation       string   `json:"interpretation,omitempty"`
	PercentageDifference *float64 `json:"percentage_difference"`
	DiscrepancyFlag      *bool    `json:"discrepancy_flag"`
}

// ValidateRatios loads the reported-ratio record for the key and recomputes
// every reported name known to the catalog. Unknown reported names pass
// through with a nil Computed value. A missing reported-ratio record yields
// no records and no error; blank arguments or a bad period are caller bugs.
func (e *Engine) ValidateRatios(ctx context.Context, ticker string, period models.PeriodType, date string) ([]Record, error) {
	if ticker == "" || date == "" {
		return nil, fmt.Errorf("validate ratios: %w: ticker and fiscal date must be non-empty", ratio.ErrInvalidArgument)
	}
	if !period.Valid() {
		return nil, fmt.Errorf("validate ratios: %w: period %q", ratio.ErrInvalidArgument, period)
	}

	reported, err := e.store.GetReportedRatios(ctx, ticker, period, date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(reported))
	for name := range reported {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		rec := Record{RatioName: name, Reported: reported[name]}
		if result, ok := e.ratios.ComputeByName(ctx, name, ticker, period, date); ok && result.Defined() {
			rec.Computed = result.Value
			rec.Interpretation = result.Interpretation
			if rec.Reported != 0 {
				pct := (*result.Value - rec.Reported) / rec.Reported * 100
				flag := math.Abs(pct) > discrepancyThresholdPct
				rec.PercentageDifference = &pct
				rec.DiscrepancyFlag = &flag
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// PeerComparison benchmarks one ratio against a peer-group average.
type PeerComparison struct {
	RatioName    string   `json:"ratio_name"`
	CompanyValue float64  `json:"company_value"`
	PeerAverage  float64  `json:"peer_average"`
	Difference   float64  `json:"difference"`
	ZScore       *float64 `json:"z_score"`
}

// CompareToPeers benchmarks the company against peer statistics keyed by
// ratio name. Each entry needs an "average"; a non-zero "std_dev" adds a
// z-score. Entries without an average, unknown ratio names, and ratios the
// company's data cannot produce are skipped. A nil peer map is a caller bug.
func (e *Engine) CompareToPeers(ctx context.Context, ticker string, period models.PeriodType, date string, peerRatios map[string]map[string]float64) ([]PeerComparison, error) {
	if peerRatios == nil {
		return nil, fmt.Errorf("compare to peers: %w: peer ratios must be a non-nil map", ratio.ErrInvalidArgument)
	}
	if ticker == "" || date == "" {
		return nil, fmt.Errorf("compare to peers: %w: ticker and fiscal date must be non-empty", ratio.ErrInvalidArgument)
	}
	if !period.Valid() {
		return nil, fmt.Errorf("compare to peers: %w: period %q", ratio.ErrInvalidArgument, period)
	}

	names := make([]string, 0, len(peerRatios))
	for name := range peerRatios {
		names = append(names, name)
	}
	sort.Strings(names)

	var comparisons []PeerComparison
	for _, name := range names {
		stats := peerRatios[name]
		avg, ok := stats["average"]
		if !ok {
			continue
		}
		result, known := e.ratios.ComputeByName(ctx, name, ticker, period, date)
		if !known || !result.Defined() {
			continue
		}
		cmp := PeerComparison{
			RatioName:    name,
			CompanyValue: *result.Value,
			PeerAverage:  avg,
			Difference:   *result.Value - avg,
		}
		if sd, ok := stats["std_dev"]; ok && sd != 0 {
			z := cmp.Difference / sd
			cmp.ZScore = &z
		}
		comparisons = append(comparisons, cmp)
	}
	return comparisons, nil
}

// TrendResult summarizes one ratio over a series of fiscal dates.
type TrendResult struct {
	RatioName string `json:"ratio_name"`

	// Values maps each requested fiscal date to the computed value, nil
	// where the ratio was undefined at that date.
	Values map[string]*float64 `json:"values"`

	CAGR          *float64 `json:"cagr"`
	AverageChange *float64 `json:"average_change_pct"`
	Volatility    *float64 `json:"volatility"`
	ValidPoints   int      `json:"valid_points"`
}

// AnalyzeRatioTrends computes the named ratio at each fiscal date (sorted
// ascending) and summarizes the trajectory. CAGR needs defined, strictly
// positive values at both endpoints; volatility is the population standard
// deviation of the period-over-period percentage changes and needs at least
// two of them. An unknown ratio name makes the whole result undefined.
func (e *Engine) AnalyzeRatioTrends(ctx context.Context, ticker string, period models.PeriodType, ratioName string, fiscalDates []string) (*TrendResult, error) {
	if ticker == "" || ratioName == "" || len(fiscalDates) == 0 {
		return nil, fmt.Errorf("analyze trends: %w: ticker, ratio name and dates must be non-empty", ratio.ErrInvalidArgument)
	}
	if !period.Valid() {
		return nil, fmt.Errorf("analyze trends: %w: period %q", ratio.ErrInvalidArgument, period)
	}
	if _, ok := ratio.Registry[ratioName]; !ok {
		return nil, nil
	}

	dates := append([]string(nil), fiscalDates...)
	sort.Strings(dates)

	res := &TrendResult{RatioName: ratioName, Values: make(map[string]*float64, len(dates))}
	ordered := make([]*float64, len(dates))
	for i, d := range dates {
		result, _ := e.ratios.ComputeByName(ctx, ratioName, ticker, period, d)
		if result.Defined() {
			res.Values[d] = result.Value
			ordered[i] = result.Value
			res.ValidPoints++
		} else {
			res.Values[d] = nil
		}
	}

	start, end := ordered[0], ordered[len(ordered)-1]
	if n := len(dates) - 1; n > 0 && start != nil && end != nil && *start > 0 && *end > 0 {
		cagr := math.Pow(*end / *start, 1/float64(n)) - 1
		res.CAGR = &cagr
	}

	var changes []float64
	for i := 1; i < len(ordered); i++ {
		prev, curr := ordered[i-1], ordered[i]
		if prev == nil || curr == nil || *prev == 0 {
			continue
		}
		changes = append(changes, (*curr-*prev) / *prev * 100)
	}
	if len(changes) > 0 {
		avg := meanOf(changes)
		res.AverageChange = &avg
		if len(changes) >= 2 {
			vol := populationStdDev(changes, avg)
			res.Volatility = &vol
		}
	}
	return res, nil
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev uses the n denominator, matching the trend summary's
// whole-population framing of the observed changes.
func populationStdDev(values []float64, mean float64) float64 {
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
