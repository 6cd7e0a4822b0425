// Package audit assembles the full audit report for a ticker and keeps a
// tamper-evident trail of generated reports.
package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/phuslu/log"

	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/score"
	"fundamental_audit/pkg/core/validation"
	"fundamental_audit/pkg/models"
)

// Recommendation trigger thresholds.
const (
	piotroskiWeakBelow     = 4
	roeVolatilityHighAbove = 20.0
)

// Report is the assembled audit outcome. Score sections are nil when their
// prerequisites were missing; MissingData names the analyses that failed.
type Report struct {
	Ticker     string            `json:"ticker"`
	Period     models.PeriodType `json:"period_type"`
	FiscalDate string            `json:"fiscal_date"`

	Validation          []validation.Record `json:"validation"`
	DiscrepanciesLogged bool                `json:"discrepancies_logged"`

	DuPont    *score.DuPontResult    `json:"dupont,omitempty"`
	Altman    *score.AltmanResult    `json:"altman,omitempty"`
	Piotroski *score.PiotroskiResult `json:"piotroski,omitempty"`
	VaR       *score.VaRResult       `json:"value_at_risk,omitempty"`

	ROETrend *validation.TrendResult `json:"roe_trend,omitempty"`

	Recommendations []string `json:"recommendations"`
	MissingData     []string `json:"missing_data"`
	Summary         string   `json:"summary"`
}

// fallbackSummary is used when every score fails.
const fallbackSummary = "Unable to generate summary: no analysis produced a result."

// Assembler orchestrates validation, scoring and trend analysis into one
// report, logging each generated report to the audit trail.
type Assembler struct {
	scores    *score.Engine
	validator *validation.Engine
	trail     *Log
}

// NewAssembler wires the assembler. The audit trail is optional; a nil trail
// disables logging.
func NewAssembler(scores *score.Engine, validator *validation.Engine, trail *Log) *Assembler {
	return &Assembler{scores: scores, validator: validator, trail: trail}
}

// GenerateReport runs the full audit for one (ticker, period, fiscal date).
// trendDates, when non-empty, adds a return-on-equity trend section. Blank
// arguments or a bad period are a caller bug.
func (a *Assembler) GenerateReport(ctx context.Context, ticker string, period models.PeriodType, date string, trendDates []string) (*Report, error) {
	if ticker == "" || date == "" {
		return nil, fmt.Errorf("generate report: %w: ticker and fiscal date must be non-empty", ratio.ErrInvalidArgument)
	}
	if !period.Valid() {
		return nil, fmt.Errorf("generate report: %w: period %q", ratio.ErrInvalidArgument, period)
	}

	rep := &Report{Ticker: ticker, Period: period, FiscalDate: date}

	records, err := a.validator.ValidateRatios(ctx, ticker, period, date)
	if err != nil {
		return nil, err
	}
	rep.Validation = records

	var flagged []string
	for _, rec := range records {
		if rec.DiscrepancyFlag != nil && *rec.DiscrepancyFlag {
			flagged = append(flagged, rec.RatioName)
		}
	}
	if len(flagged) > 0 {
		rep.DiscrepanciesLogged = true
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("Investigate reported-vs-computed discrepancies in: %s", strings.Join(flagged, ", ")))
	}

	rep.DuPont = a.scores.DuPont(ctx, ticker, period, date)
	if rep.DuPont == nil || rep.DuPont.CalculatedROE == nil {
		rep.MissingData = append(rep.MissingData, "dupont")
	}

	rep.Altman = a.scores.AltmanZ(ctx, ticker, period, date)
	if rep.Altman == nil {
		rep.MissingData = append(rep.MissingData, "altman_z")
	} else if rep.Altman.Classification == score.AltmanDistress {
		rep.Recommendations = append(rep.Recommendations,
			"Altman Z-Score indicates financial distress; consider debt restructuring or liquidity measures")
	}

	rep.Piotroski = a.scores.PiotroskiF(ctx, ticker, period, date)
	if rep.Piotroski != nil && rep.Piotroski.Score < piotroskiWeakBelow {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("Piotroski F-Score of %d signals weak fundamentals", rep.Piotroski.Score))
	}

	rep.VaR = a.scores.ComputeVaRFixed95(ctx, ticker, date)
	if rep.VaR == nil {
		rep.MissingData = append(rep.MissingData, "value_at_risk")
	}

	if len(trendDates) > 0 {
		trend, err := a.validator.AnalyzeRatioTrends(ctx, ticker, period, "returnOnEquity", trendDates)
		if err != nil {
			return nil, err
		}
		rep.ROETrend = trend
		if trend != nil {
			if trend.CAGR != nil && *trend.CAGR < 0 {
				rep.Recommendations = append(rep.Recommendations,
					"Return on equity is shrinking year over year; review profitability drivers")
			}
			if trend.Volatility != nil && *trend.Volatility > roeVolatilityHighAbove {
				rep.Recommendations = append(rep.Recommendations,
					"Return on equity is highly volatile across the analyzed periods")
			}
		}
	}

	rep.Summary = a.summarize(rep)
	a.logReport(rep)
	return rep, nil
}

// summarize builds a one-line summary from whichever scores succeeded.
func (a *Assembler) summarize(rep *Report) string {
	var parts []string
	if rep.DuPont != nil && rep.DuPont.CalculatedROE != nil {
		parts = append(parts, fmt.Sprintf("ROE %.1f%%", *rep.DuPont.CalculatedROE*100))
	}
	if rep.Altman != nil {
		parts = append(parts, fmt.Sprintf("Altman Z %.2f (%s)", rep.Altman.Z, rep.Altman.Classification))
	}
	if rep.Piotroski != nil && !rep.Piotroski.Incomplete {
		parts = append(parts, fmt.Sprintf("Piotroski F %d/9", rep.Piotroski.Score))
	}
	if rep.VaR != nil {
		parts = append(parts, fmt.Sprintf("95%% VaR %.2f%%", rep.VaR.Parametric*100))
	}
	if len(parts) == 0 {
		return fallbackSummary
	}
	return fmt.Sprintf("%s (%s, %s): %s", rep.Ticker, rep.Period, rep.FiscalDate, strings.Join(parts, "; "))
}

// logReport appends the report to the audit trail, best effort.
func (a *Assembler) logReport(rep *Report) {
	if a.trail == nil {
		return
	}
	details := map[string]string{
		"fiscal_date":     rep.FiscalDate,
		"period":          string(rep.Period),
		"discrepancies":   fmt.Sprintf("%t", rep.DiscrepanciesLogged),
		"recommendations": fmt.Sprintf("%d", len(rep.Recommendations)),
	}
	if err := a.trail.Append(rep.Ticker, "audit_report_generated", details); err != nil {
		log.Warn().Err(err).Str("ticker", rep.Ticker).Msg("audit trail append failed")
	}
}
