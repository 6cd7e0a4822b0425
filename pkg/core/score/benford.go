package score

import (
	"context"
	"math"
	"strconv"

	"fundamental_audit/pkg/models"
)

// benfordExpected is the expected first-digit frequency for digits 1-9.
var benfordExpected = map[int]float64{
	1: 0.30103,
	2: 0.17609,
	3: 0.12494,
	4: 0.09691,
	5: 0.07918,
	6: 0.06695,
	7: 0.05799,
	8: 0.05115,
	9: 0.04576,
}

// BenfordResult holds the first-digit distribution of a set of reported
// statement values and its deviation from the expected law.
type BenfordResult struct {
	DigitCounts      map[int]int     `json:"digit_counts"`
	DigitFrequencies map[int]float64 `json:"digit_frequencies"`
	TotalCount       int             `json:"total_count"`
	MAD              float64         `json:"mad"`
	Flagged          bool            `json:"flagged"`
	Level            string          `json:"level"`
}

// AnalyzeBenford screens a set of raw financial values by first-digit
// frequency. Values with absolute value below 1 are skipped. The mean
// absolute deviation thresholds (0.010 marginal, 0.015 nonconforming) follow
// common audit heuristics for small samples.
func AnalyzeBenford(values []float64) BenfordResult {
	counts := make(map[int]int)
	processed := 0

	for _, v := range values {
		abs := math.Abs(v)
		if abs < 1.0 {
			continue
		}
		s := strconv.FormatFloat(abs, 'f', -1, 64)
		for _, c := range s {
			if c >= '1' && c <= '9' {
				counts[int(c-'0')]++
				processed++
				break
			}
		}
	}

	if processed == 0 {
		return BenfordResult{Level: "Insufficient Data"}
	}

	freqs := make(map[int]float64)
	var sumDiff float64
	for d := 1; d <= 9; d++ {
		f := float64(counts[d]) / float64(processed)
		freqs[d] = f
		sumDiff += math.Abs(f - benfordExpected[d])
	}
	mad := sumDiff / 9.0

	level := "Low Risk"
	flagged := false
	switch {
	case mad > 0.015:
		level = "High Risk"
		flagged = true
	case mad > 0.010:
		level = "Medium Risk"
	}

	return BenfordResult{
		DigitCounts:      counts,
		DigitFrequencies: freqs,
		TotalCount:       processed,
		MAD:              mad,
		Flagged:          flagged,
		Level:            level,
	}
}

// BenfordScreen pulls every reported line item from the ticker's three
// statements at the fiscal date and runs the first-digit screen over them.
// Undefined when no statement exists for the key.
func (e *Engine) BenfordScreen(ctx context.Context, ticker string, period models.PeriodType, date string) *BenfordResult {
	var values []float64
	for _, snap := range []*models.StatementSnapshot{
		e.ratios.Balance(ctx, ticker, period, date),
		e.ratios.Income(ctx, ticker, period, date),
		e.ratios.CashFlow(ctx, ticker, period, date),
	} {
		if snap == nil {
			continue
		}
		for _, v := range snap.Fields {
			if v != 0 {
				values = append(values, v)
			}
		}
	}
	if len(values) == 0 {
		return nil
	}
	res := AnalyzeBenford(values)
	return &res
}
