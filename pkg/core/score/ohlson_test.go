package score

import (
	"context"
	"math"
	"testing"

	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

func ohlsonFixture() *store.MemoryStore {
	s := store.NewMemoryStore()
	putYear(s, testDate,
		map[string]float64{
			"totalAssets":             1000,
			"totalLiabilities":        500,
			"totalCurrentAssets":      600,
			"totalCurrentLiabilities": 100,
		},
		map[string]float64{"netIncome": 100},
		map[string]float64{"operatingCashFlow": 250})
	putYear(s, priorDate, nil, map[string]float64{"netIncome": 80}, nil)
	putYear(s, prior2Date, nil, map[string]float64{"netIncome": 60}, nil)
	return s
}

func TestOhlsonHealthyCompany(t *testing.T) {
	e := newEngine(ohlsonFixture())

	res := e.OhlsonO(context.Background(), testTicker, models.PeriodAnnual, testDate)
	if res == nil {
		t.Fatal("expected an O-Score")
	}

	// O = -1.32 - 0.407*ln(1000) + 6.03*0.5 - 1.43*0.5 + 0.0757*(1/6)
	//     - 1.72*0 - 2.37*0.1 - 1.83*0.5 + 0.285*0 - 0.521*(20/180)
	want := -1.32 - 0.407*math.Log(1000) + 6.03*0.5 - 1.43*0.5 + 0.0757/6 -
		2.37*0.1 - 1.83*0.5 - 0.521*(20.0/180.0)
	if math.Abs(res.O-want) > 1e-9 {
		t.Errorf("expected O %f, got %f", want, res.O)
	}
	if res.Risk != "low" {
		t.Errorf("healthy fixture should read low risk, got %s (O=%f)", res.Risk, res.O)
	}
	if res.Components["two_year_loss_history"] != 0 {
		t.Error("profitable history should not trip the loss-history flag")
	}
}

func TestOhlsonLossHistoryAndNegativeEquity(t *testing.T) {
	s := store.NewMemoryStore()
	putYear(s, testDate,
		map[string]float64{
			"totalAssets":             1000,
			"totalLiabilities":        1200, // liabilities exceed assets
			"totalCurrentAssets":      600,
			"totalCurrentLiabilities": 700,
		},
		map[string]float64{"netIncome": -50},
		map[string]float64{"operatingCashFlow": -10})
	putYear(s, priorDate, nil, map[string]float64{"netIncome": -40}, nil)
	putYear(s, prior2Date, nil, map[string]float64{"netIncome": -30}, nil)
	e := newEngine(s)

	res := e.OhlsonO(context.Background(), testTicker, models.PeriodAnnual, testDate)
	if res == nil {
		t.Fatal("expected an O-Score")
	}
	if res.Components["negative_equity"] != 1 {
		t.Error("expected the negative-equity flag")
	}
	if res.Components["two_year_loss_history"] != 1 {
		t.Error("expected the two-year loss flag")
	}
	if res.Risk != "high" {
		t.Errorf("distressed fixture should read high risk, got %s (O=%f)", res.Risk, res.O)
	}
}

func TestOhlsonUndefinedCases(t *testing.T) {
	ctx := context.Background()

	// Missing t-2 net income.
	s := store.NewMemoryStore()
	putYear(s, testDate,
		map[string]float64{
			"totalAssets":             1000,
			"totalLiabilities":        500,
			"totalCurrentAssets":      600,
			"totalCurrentLiabilities": 100,
		},
		map[string]float64{"netIncome": 100},
		map[string]float64{"operatingCashFlow": 250})
	putYear(s, priorDate, nil, map[string]float64{"netIncome": 80}, nil)
	if res := newEngine(s).OhlsonO(ctx, testTicker, models.PeriodAnnual, testDate); res != nil {
		t.Error("expected nil when the two-year income history is absent")
	}

	// Non-positive total assets.
	s2 := store.NewMemoryStore()
	putYear(s2, testDate,
		map[string]float64{
			"totalAssets":             0,
			"totalLiabilities":        500,
			"totalCurrentAssets":      600,
			"totalCurrentLiabilities": 100,
		},
		map[string]float64{"netIncome": 100},
		map[string]float64{"operatingCashFlow": 250})
	putYear(s2, priorDate, nil, map[string]float64{"netIncome": 80}, nil)
	putYear(s2, prior2Date, nil, map[string]float64{"netIncome": 60}, nil)
	if res := newEngine(s2).OhlsonO(ctx, testTicker, models.PeriodAnnual, testDate); res != nil {
		t.Error("expected nil on non-positive total assets")
	}

	// Income change denominator |NI| + |NI prior| = 0.
	s3 := store.NewMemoryStore()
	putYear(s3, testDate,
		map[string]float64{
			"totalAssets":             1000,
			"totalLiabilities":        500,
			"totalCurrentAssets":      600,
			"totalCurrentLiabilities": 100,
		},
		map[string]float64{"netIncome": 0},
		map[string]float64{"operatingCashFlow": 250})
	putYear(s3, priorDate, nil, map[string]float64{"netIncome": 0}, nil)
	putYear(s3, prior2Date, nil, map[string]float64{"netIncome": 60}, nil)
	if res := newEngine(s3).OhlsonO(ctx, testTicker, models.PeriodAnnual, testDate); res != nil {
		t.Error("expected nil when the income-change denominator is zero")
	}
}
