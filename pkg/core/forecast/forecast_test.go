package forecast

import (
	"math"
	"testing"
)

func TestLinearTrendExactLine(t *testing.T) {
	// y = 3 + 2x fits itself exactly.
	series := []float64{3, 5, 7, 9}
	p := LinearTrend(series, 3)
	if p == nil {
		t.Fatal("expected a projection")
	}
	if p.Method != "linear_trend" {
		t.Errorf("unexpected method %q", p.Method)
	}
	for i, want := range series {
		if math.Abs(p.Fitted[i]-want) > 1e-9 {
			t.Errorf("fitted[%d]: expected %f, got %f", i, want, p.Fitted[i])
		}
	}
	for i, want := range []float64{11, 13, 15} {
		if math.Abs(p.Forecast[i]-want) > 1e-9 {
			t.Errorf("forecast[%d]: expected %f, got %f", i, want, p.Forecast[i])
		}
	}
}

func TestLinearTrendGuards(t *testing.T) {
	if LinearTrend([]float64{1}, 3) != nil {
		t.Error("expected nil below two observations")
	}
	if LinearTrend([]float64{1, 2}, 0) != nil {
		t.Error("expected nil on a non-positive horizon")
	}
}

func TestExponentialSmoothing(t *testing.T) {
	p := ExponentialSmoothing([]float64{10, 20, 30}, 0.5, 2)
	if p == nil {
		t.Fatal("expected a projection")
	}
	// Levels: 10, 15, 22.5; the forecast holds the last level flat.
	want := []float64{10, 15, 22.5}
	for i := range want {
		if math.Abs(p.Fitted[i]-want[i]) > 1e-9 {
			t.Errorf("fitted[%d]: expected %f, got %f", i, want[i], p.Fitted[i])
		}
	}
	if p.Forecast[0] != 22.5 || p.Forecast[1] != 22.5 {
		t.Errorf("expected a flat forecast at 22.5, got %v", p.Forecast)
	}

	// Alpha 1 reduces to the naive forecast.
	naive := ExponentialSmoothing([]float64{10, 20, 30}, 1, 1)
	if naive == nil || naive.Forecast[0] != 30 {
		t.Errorf("alpha 1 should forecast the last value, got %v", naive)
	}
}

func TestExponentialSmoothingGuards(t *testing.T) {
	if ExponentialSmoothing([]float64{1, 2}, 0, 1) != nil {
		t.Error("expected nil at alpha 0")
	}
	if ExponentialSmoothing([]float64{1, 2}, 1.5, 1) != nil {
		t.Error("expected nil above alpha 1")
	}
	if ExponentialSmoothing([]float64{1}, 0.5, 1) != nil {
		t.Error("expected nil below two observations")
	}
}

func TestHoltSmoothingTracksTrend(t *testing.T) {
	// A clean arithmetic ramp: level and trend lock on, and the forecast
	// extends the line.
	series := []float64{10, 12, 14, 16, 18}
	p := HoltSmoothing(series, 1, 1, 3)
	if p == nil {
		t.Fatal("expected a projection")
	}
	for i, want := range []float64{20, 22, 24} {
		if math.Abs(p.Forecast[i]-want) > 1e-9 {
			t.Errorf("forecast[%d]: expected %f, got %f", i, want, p.Forecast[i])
		}
	}
}

func TestHoltSmoothingGuards(t *testing.T) {
	if HoltSmoothing([]float64{1, 2}, 0.5, 0.5, 1) != nil {
		t.Error("expected nil below three observations")
	}
	if HoltSmoothing([]float64{1, 2, 3}, 0.5, 0, 1) != nil {
		t.Error("expected nil at beta 0")
	}
}
