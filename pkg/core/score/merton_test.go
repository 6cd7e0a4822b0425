package score

import (
	"context"
	"math"
	"testing"

	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

func mertonFixture() *store.MemoryStore {
	s := store.NewMemoryStore()
	putYear(s, testDate,
		map[string]float64{"totalDebt": 500},
		map[string]float64{"weightedAverageShsOut": 10},
		nil)
	putClose(s, "2024-12-29", 100)
	putClose(s, "2024-12-30", 110)
	putClose(s, testDate, 99)
	return s
}

func TestMertonDistanceToDefault(t *testing.T) {
	e := newEngine(mertonFixture())

	res := e.MertonDD(context.Background(), testTicker, models.PeriodAnnual, testDate, MertonParams{})
	if res == nil {
		t.Fatal("expected a Merton result")
	}

	// Returns +0.10 and -0.10: mean 0, sample sigma sqrt(0.02).
	sigma := math.Sqrt(0.02)
	if math.Abs(res.Sigma-sigma) > 1e-9 {
		t.Errorf("sigma: expected %f, got %f", sigma, res.Sigma)
	}

	// MVE = 99 * 10 = 990 against debt 500 at the default rf and horizon.
	wantDD := (math.Log(990.0/500.0) + (DefaultRiskFreeRate-0.5*sigma*sigma)*1.0) / sigma
	if math.Abs(res.DistanceToDefault-wantDD) > 1e-9 {
		t.Errorf("DD: expected %f, got %f", wantDD, res.DistanceToDefault)
	}
	wantPD := normCDF(-wantDD)
	if math.Abs(res.DefaultProbability-wantPD) > 1e-12 {
		t.Errorf("PD: expected %g, got %g", wantPD, res.DefaultProbability)
	}
	if res.MarketValueEquity != 990 || res.Debt != 500 {
		t.Errorf("unexpected MVE/debt: %f / %f", res.MarketValueEquity, res.Debt)
	}
}

func TestMertonParamOverrides(t *testing.T) {
	e := newEngine(mertonFixture())

	res := e.MertonDD(context.Background(), testTicker, models.PeriodAnnual, testDate, MertonParams{RiskFreeRate: Float(0.02), HorizonYears: Float(2)})
	if res == nil {
		t.Fatal("expected a Merton result")
	}
	if res.RiskFreeRate != 0.02 || res.HorizonYears != 2 {
		t.Errorf("overrides not carried through: rf=%f T=%f", res.RiskFreeRate, res.HorizonYears)
	}

	if res := e.MertonDD(context.Background(), testTicker, models.PeriodAnnual, testDate, MertonParams{HorizonYears: Float(-1)}); res != nil {
		t.Error("expected nil on a negative horizon")
	}
}

func TestMertonZeroRateHonored(t *testing.T) {
	e := newEngine(mertonFixture())

	res := e.MertonDD(context.Background(), testTicker, models.PeriodAnnual, testDate, MertonParams{RiskFreeRate: Float(0)})
	if res == nil {
		t.Fatal("expected a Merton result")
	}
	if res.RiskFreeRate != 0 {
		t.Errorf("explicit zero rate reverted to a default: rf=%f", res.RiskFreeRate)
	}

	// Drift is -sigma^2/2 with no risk-free component.
	sigma := math.Sqrt(0.02)
	wantDD := (math.Log(990.0/500.0) - 0.5*sigma*sigma) / sigma
	if math.Abs(res.DistanceToDefault-wantDD) > 1e-9 {
		t.Errorf("DD: expected %f, got %f", wantDD, res.DistanceToDefault)
	}
}

func TestMertonUndefinedCases(t *testing.T) {
	ctx := context.Background()

	// No debt on the balance sheet.
	s := store.NewMemoryStore()
	putYear(s, testDate, nil, map[string]float64{"weightedAverageShsOut": 10}, nil)
	putClose(s, "2024-12-30", 100)
	putClose(s, testDate, 110)
	if res := newEngine(s).MertonDD(ctx, testTicker, models.PeriodAnnual, testDate, MertonParams{}); res != nil {
		t.Error("expected nil without debt")
	}

	// A single price bar yields no returns.
	s2 := store.NewMemoryStore()
	putYear(s2, testDate,
		map[string]float64{"totalDebt": 500},
		map[string]float64{"weightedAverageShsOut": 10},
		nil)
	putClose(s2, testDate, 99)
	if res := newEngine(s2).MertonDD(ctx, testTicker, models.PeriodAnnual, testDate, MertonParams{}); res != nil {
		t.Error("expected nil with a single price bar")
	}

	// Constant prices: zero volatility.
	s3 := store.NewMemoryStore()
	putYear(s3, testDate,
		map[string]float64{"totalDebt": 500},
		map[string]float64{"weightedAverageShsOut": 10},
		nil)
	putClose(s3, "2024-12-29", 99)
	putClose(s3, "2024-12-30", 99)
	putClose(s3, testDate, 99)
	if res := newEngine(s3).MertonDD(ctx, testTicker, models.PeriodAnnual, testDate, MertonParams{}); res != nil {
		t.Error("expected nil on zero volatility")
	}
}
