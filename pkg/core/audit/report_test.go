package audit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/score"
	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/core/validation"
	"fundamental_audit/pkg/models"
)

const (
	testTicker = "ACME"
	testDate   = "2024-12-31"
	priorDate  = "2023-12-31"
)

func putPrice(s *store.MemoryStore, date string, close float64) {
	d, err := time.Parse(models.FiscalDateLayout, date)
	if err != nil {
		panic(err)
	}
	s.PutPrice(models.PricePoint{Ticker: testTicker, TradeDate: d, Close: close})
}

// reportFixture seeds two fiscal years, a month of prices and a reported
// ratio that disagrees with the computed value.
func reportFixture() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.PutStatement(testTicker, models.KindBalanceSheet, models.PeriodAnnual, testDate, map[string]float64{
		"totalCurrentAssets":      600,
		"totalCurrentLiabilities": 100,
		"retainedEarnings":        600,
		"totalAssets":             1000,
		"totalLiabilities":        500,
		"totalShareholdersEquity": 500,
		"longTermDebt":            300,
	})
	s.PutStatement(testTicker, models.KindIncomeStatement, models.PeriodAnnual, testDate, map[string]float64{
		"revenue":               2000,
		"grossProfit":           800,
		"operatingIncome":       200,
		"netIncome":             100,
		"weightedAverageShsOut": 10,
	})
	s.PutStatement(testTicker, models.KindCashFlow, models.PeriodAnnual, testDate, map[string]float64{
		"operatingCashFlow": 250,
	})

	s.PutStatement(testTicker, models.KindBalanceSheet, models.PeriodAnnual, priorDate, map[string]float64{
		"totalAssets":             900,
		"longTermDebt":            320,
		"totalCurrentAssets":      400,
		"totalCurrentLiabilities": 100,
		"totalShareholdersEquity": 500,
	})
	s.PutStatement(testTicker, models.KindIncomeStatement, models.PeriodAnnual, priorDate, map[string]float64{
		"revenue":               1900,
		"grossProfit":           700,
		"netIncome":             150,
		"weightedAverageShsOut": 10,
	})

	// 31 trading days gives the 30 returns the VaR section needs.
	price := 100.0
	putPrice(s, "2024-12-01", price)
	for i := 2; i <= 31; i++ {
		if i%5 == 0 {
			price *= 0.96
		} else {
			price *= 1.005
		}
		putPrice(s, fmt.Sprintf("2024-12-%02d", i), price)
	}

	s.PutReportedRatios(testTicker, models.PeriodAnnual, testDate, map[string]float64{
		"currentRatio": 6.0, // matches
		"debtRatio":    0.4, // computed 0.5: flagged
	})
	return s
}

func newAssembler(t *testing.T, s store.StatementStore) *Assembler {
	t.Helper()
	ratios := ratio.NewEngine(s)
	trail, err := OpenLog(filepath.Join(t.TempDir(), "audit.log"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	return NewAssembler(score.NewEngine(ratios), validation.NewEngine(ratios), trail)
}

func TestGenerateReport(t *testing.T) {
	a := newAssembler(t, reportFixture())

	rep, err := a.GenerateReport(context.Background(), testTicker, models.PeriodAnnual, testDate,
		[]string{priorDate, testDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rep.Validation) != 2 {
		t.Errorf("expected 2 validation records, got %d", len(rep.Validation))
	}
	if !rep.DiscrepanciesLogged {
		t.Error("the debtRatio gap must mark discrepancies")
	}

	if rep.DuPont == nil || rep.DuPont.CalculatedROE == nil {
		t.Error("expected a complete DuPont section")
	}
	if rep.Altman == nil {
		t.Error("expected an Altman section")
	}
	if rep.Piotroski == nil || rep.Piotroski.Incomplete {
		t.Errorf("expected a complete Piotroski section: %+v", rep.Piotroski)
	}
	if rep.VaR == nil {
		t.Error("expected a VaR section")
	}
	if len(rep.MissingData) != 0 {
		t.Errorf("nothing should be missing: %v", rep.MissingData)
	}

	// ROE fell from 0.30 to 0.20 across the trend window.
	if rep.ROETrend == nil || rep.ROETrend.CAGR == nil || *rep.ROETrend.CAGR >= 0 {
		t.Errorf("expected a negative ROE trend: %+v", rep.ROETrend)
	}

	var hasDiscrepancyRec, hasROERec bool
	for _, r := range rep.Recommendations {
		if strings.Contains(r, "debtRatio") {
			hasDiscrepancyRec = true
		}
		if strings.Contains(r, "shrinking") {
			hasROERec = true
		}
	}
	if !hasDiscrepancyRec {
		t.Errorf("expected a discrepancy recommendation: %v", rep.Recommendations)
	}
	if !hasROERec {
		t.Errorf("expected a shrinking-ROE recommendation: %v", rep.Recommendations)
	}

	if !strings.HasPrefix(rep.Summary, "ACME (annual, 2024-12-31):") {
		t.Errorf("unexpected summary: %q", rep.Summary)
	}
	for _, want := range []string{"ROE 20.0%", "Altman Z", "Piotroski F", "VaR"} {
		if !strings.Contains(rep.Summary, want) {
			t.Errorf("summary missing %q: %q", want, rep.Summary)
		}
	}
}

func TestGenerateReportLogsToTrail(t *testing.T) {
	ratios := ratio.NewEngine(reportFixture())
	trail, err := OpenLog(filepath.Join(t.TempDir(), "audit.log"))
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	a := NewAssembler(score.NewEngine(ratios), validation.NewEngine(ratios), trail)

	if _, err := a.GenerateReport(context.Background(), testTicker, models.PeriodAnnual, testDate, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := trail.Verify()
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("the trail must verify after a generated report")
	}
}

func TestGenerateReportEmptyStore(t *testing.T) {
	a := newAssembler(t, store.NewMemoryStore())

	rep, err := a.GenerateReport(context.Background(), testTicker, models.PeriodAnnual, testDate, nil)
	if err != nil {
		t.Fatalf("missing data must degrade, not fail: %v", err)
	}

	if rep.Summary != fallbackSummary {
		t.Errorf("expected the fallback summary, got %q", rep.Summary)
	}
	for _, want := range []string{"dupont", "altman_z", "value_at_risk"} {
		var found bool
		for _, m := range rep.MissingData {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %q in missing data: %v", want, rep.MissingData)
		}
	}

	// An all-missing Piotroski scores 0, which still reads as weak.
	var hasWeakRec bool
	for _, r := range rep.Recommendations {
		if strings.Contains(r, "weak fundamentals") {
			hasWeakRec = true
		}
	}
	if !hasWeakRec {
		t.Errorf("expected a weak-fundamentals recommendation: %v", rep.Recommendations)
	}
}

func TestGenerateReportInvalidArguments(t *testing.T) {
	a := newAssembler(t, store.NewMemoryStore())
	ctx := context.Background()

	if _, err := a.GenerateReport(ctx, "", models.PeriodAnnual, testDate, nil); !errors.Is(err, ratio.ErrInvalidArgument) {
		t.Errorf("blank ticker: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.GenerateReport(ctx, testTicker, models.PeriodType("weekly"), testDate, nil); !errors.Is(err, ratio.ErrInvalidArgument) {
		t.Errorf("bad period: expected ErrInvalidArgument, got %v", err)
	}
}
