// Package forecast fits simple trend models to an observed numeric series
// and projects it forward. Model fitting never returns an error: a series
// too short for the model yields a nil result.
package forecast

// Projection is a fitted model's view of the series plus its forward path.
type Projection struct {
	Method   string    `json:"method"`
	Fitted   []float64 `json:"fitted"`
	Forecast []float64 `json:"forecast"`
}

// LinearTrend fits ordinary least squares over the observation index and
// projects horizon steps ahead. Nil with fewer than two observations or a
// non-positive horizon.
func LinearTrend(series []float64, horizon int) *Projection {
	n := len(series)
	if n < 2 || horizon <= 0 {
		return nil
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	den := fn*sumXX - sumX*sumX
	if den == 0 {
		return nil
	}
	slope := (fn*sumXY - sumX*sumY) / den
	intercept := (sumY - slope*sumX) / fn

	fitted := make([]float64, n)
	for i := range fitted {
		fitted[i] = intercept + slope*float64(i)
	}
	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = intercept + slope*float64(n+i)
	}
	return &Projection{Method: "linear_trend", Fitted: fitted, Forecast: forecast}
}

// ExponentialSmoothing fits single exponential smoothing with factor alpha
// in (0, 1]. The forecast is flat at the last smoothed level. Nil with fewer
// than two observations.
func ExponentialSmoothing(series []float64, alpha float64, horizon int) *Projection {
	n := len(series)
	if n < 2 || horizon <= 0 || alpha <= 0 || alpha > 1 {
		return nil
	}

	fitted := make([]float64, n)
	level := series[0]
	fitted[0] = level
	for i := 1; i < n; i++ {
		level = alpha*series[i] + (1-alpha)*level
		fitted[i] = level
	}

	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = level
	}
	return &Projection{Method: "exponential_smoothing", Fitted: fitted, Forecast: forecast}
}

// HoltSmoothing fits double (Holt) exponential smoothing with level factor
// alpha and trend factor beta, both in (0, 1]. Nil with fewer than three
// observations.
func HoltSmoothing(series []float64, alpha, beta float64, horizon int) *Projection {
	n := len(series)
	if n < 3 || horizon <= 0 || alpha <= 0 || alpha > 1 || beta <= 0 || beta > 1 {
		return nil
	}

	level := series[0]
	trend := series[1] - series[0]

	fitted := make([]float64, n)
	fitted[0] = level
	for i := 1; i < n; i++ {
		prevLevel := level
		level = alpha*series[i] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		fitted[i] = level
	}

	forecast := make([]float64, horizon)
	for i := range forecast {
		forecast[i] = level + float64(i+1)*trend
	}
	return &Projection{Method: "holt_smoothing", Fitted: fitted, Forecast: forecast}
}
