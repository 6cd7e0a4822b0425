package score

import (
	"context"
	"math"
	"testing"

	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

func beneishYear() (bs, is, cf map[string]float64) {
	bs = map[string]float64{
		"netReceivables":            100,
		"totalCurrentAssets":        600,
		"propertyPlantEquipmentNet": 400,
		"totalAssets":               2000,
		"totalLiabilities":          500,
	}
	is = map[string]float64{
		"revenue":               2000,
		"grossProfit":           800,
		"netIncome":             100,
		"sellingGeneralAndAdministrativeExpenses": 300,
	}
	cf = map[string]float64{
		"operatingCashFlow":           250,
		"depreciationAndAmortization": 60,
	}
	return bs, is, cf
}

func TestBeneishIdenticalYears(t *testing.T) {
	s := store.NewMemoryStore()
	bs, is, cf := beneishYear()
	putYear(s, testDate, bs, is, cf)
	bs2, is2, cf2 := beneishYear()
	putYear(s, priorDate, bs2, is2, cf2)
	e := newEngine(s)

	res := e.BeneishM(context.Background(), testTicker, models.PeriodAnnual, testDate)
	if res == nil {
		t.Fatal("expected an M-Score")
	}

	// Identical years: every index reads 1 except the accrual term,
	// TATA = (100 - 250) / 2000 = -0.075.
	for name, got := range map[string]float64{
		"DSRI": res.DSRI, "GMI": res.GMI, "AQI": res.AQI, "SGI": res.SGI,
		"DEPI": res.DEPI, "SGAI": res.SGAI, "LVGI": res.LVGI,
	} {
		if math.Abs(got-1) > 1e-9 {
			t.Errorf("%s: expected 1.0 on identical years, got %f", name, got)
		}
	}
	if math.Abs(res.TATA-(-0.075)) > 1e-9 {
		t.Errorf("TATA: expected -0.075, got %f", res.TATA)
	}

	// M = -4.84 + 0.92 + 0.528 + 0.404 + 0.892 + 0.115 - 0.172
	//     + 4.679*(-0.075) - 0.327 = -2.830925
	if math.Abs(res.Score-(-2.830925)) > 1e-6 {
		t.Errorf("expected M -2.830925, got %f", res.Score)
	}
	if res.Risk != "low" {
		t.Errorf("expected low risk below -2.22, got %s", res.Risk)
	}
}

func TestBeneishHighRiskThreshold(t *testing.T) {
	s := store.NewMemoryStore()
	bs, is, cf := beneishYear()
	// Inflate accruals: NI far above cash flow pushes TATA and M up.
	is["netIncome"] = 900
	putYear(s, testDate, bs, is, cf)
	bs2, is2, cf2 := beneishYear()
	putYear(s, priorDate, bs2, is2, cf2)
	e := newEngine(s)

	res := e.BeneishM(context.Background(), testTicker, models.PeriodAnnual, testDate)
	if res == nil {
		t.Fatal("expected an M-Score")
	}
	// TATA = (900-250)/2000 = 0.325; M rises by 4.679*0.4 over the base case.
	if res.Score <= beneishHighRiskThreshold {
		t.Fatalf("fixture should cross the manipulation threshold, got %f", res.Score)
	}
	if res.Risk != "high" {
		t.Errorf("expected high risk, got %s", res.Risk)
	}
}

func TestBeneishUndefinedCases(t *testing.T) {
	ctx := context.Background()

	// Missing prior year entirely.
	s := store.NewMemoryStore()
	bs, is, cf := beneishYear()
	putYear(s, testDate, bs, is, cf)
	if res := newEngine(s).BeneishM(ctx, testTicker, models.PeriodAnnual, testDate); res != nil {
		t.Error("expected nil without the prior year")
	}

	// Zero sales in the prior year breaks an intermediate ratio.
	s2 := store.NewMemoryStore()
	bs, is, cf = beneishYear()
	putYear(s2, testDate, bs, is, cf)
	bs2, is2, cf2 := beneishYear()
	is2["revenue"] = 0
	putYear(s2, priorDate, bs2, is2, cf2)
	if res := newEngine(s2).BeneishM(ctx, testTicker, models.PeriodAnnual, testDate); res != nil {
		t.Error("expected nil on a zero intermediate denominator")
	}

	// Unparseable fiscal date.
	if res := newEngine(store.NewMemoryStore()).BeneishM(ctx, testTicker, models.PeriodAnnual, "bad-date"); res != nil {
		t.Error("expected nil on an unparseable date")
	}
}
