package models

import (
	"time"
)

// PeriodType is the statement cadence: annual or quarterly.
type PeriodType string

const (
	PeriodAnnual    PeriodType = "annual"
	PeriodQuarterly PeriodType = "quarterly"
)

// Valid reports whether the period type is one of the two supported cadences.
func (p PeriodType) Valid() bool {
	return p == PeriodAnnual || p == PeriodQuarterly
}

// StatementKind identifies one of the three financial statements.
type StatementKind string

const (
	KindBalanceSheet    StatementKind = "balance_sheet"
	KindIncomeStatement StatementKind = "income_statement"
	KindCashFlow        StatementKind = "cash_flow"
)

// FiscalDateLayout is the wire format for fiscal and trade dates.
const FiscalDateLayout = "2006-01-02"

// StatementSnapshot is a single statement for one (ticker, period, fiscal date),
// keyed by line-item name (e.g. "totalCurrentAssets", "netIncome").
// A field that was not reported is simply absent from the map; snapshots are
// read-only once constructed by the store.
type StatementSnapshot struct {
	Ticker     string             `json:"ticker"`
	Kind       StatementKind      `json:"kind"`
	Period     PeriodType         `json:"period_type"`
	FiscalDate string             `json:"fiscal_date"`
	Fields     map[string]float64 `json:"fields"`
}

// Get returns the named field and whether it was reported.
func (s *StatementSnapshot) Get(field string) (float64, bool) {
	if s == nil || s.Fields == nil {
		return 0, false
	}
	v, ok := s.Fields[field]
	return v, ok
}

// PriorFiscalDate returns the fiscal date exactly one calendar year earlier.
// Year-over-year scores fail closed when the date does not parse.
func PriorFiscalDate(fiscalDate string) (string, bool) {
	t, err := time.Parse(FiscalDateLayout, fiscalDate)
	if err != nil {
		return "", false
	}
	return t.AddDate(-1, 0, 0).Format(FiscalDateLayout), true
}

// PricePoint is one daily bar of a ticker's price history.
type PricePoint struct {
	Ticker    string    `json:"ticker"`
	TradeDate time.Time `json:"trade_date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// DailyReturns converts an ordered price series into simple daily returns.
// Bars with a zero prior close are skipped rather than producing an infinity.
func DailyReturns(series []PricePoint) []float64 {
	if len(series) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (series[i].Close-prev)/prev)
	}
	return returns
}
