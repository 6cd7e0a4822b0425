// Package technical computes price-series indicators: moving averages,
// RSI, MACD, Bollinger bands and rate of change. Every indicator returns nil
// when the series is too short for its window.
package technical

import "math"

// SMA returns the simple moving average over the trailing window at each
// index from window-1 on; nil when the series is shorter than the window.
func SMA(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// EMA returns the exponential moving average with smoothing 2/(window+1),
// seeded by the SMA of the first window values.
func EMA(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	k := 2.0 / float64(window+1)

	var seed float64
	for _, v := range values[:window] {
		seed += v
	}
	seed /= float64(window)

	out := make([]float64, 0, len(values)-window+1)
	out = append(out, seed)
	prev := seed
	for _, v := range values[window:] {
		prev = v*k + prev*(1-k)
		out = append(out, prev)
	}
	return out
}

// RSI returns the Wilder relative strength index for the trailing period.
// The final value only; nil with fewer than period+1 closes. A series with
// no losses reads 100.
func RSI(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period+1 {
		return nil
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
	}

	var rsi float64
	if avgLoss == 0 {
		rsi = 100
	} else {
		rs := avgGain / avgLoss
		rsi = 100 - 100/(1+rs)
	}
	return &rsi
}

// MACDResult is the final MACD reading: fast EMA minus slow EMA, its signal
// EMA, and the histogram difference.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MACD computes the 12/26/9 convergence-divergence (or any fast/slow/signal
// triple). Nil when the series cannot cover slow+signal-1 points.
func MACD(values []float64, fast, slow, signal int) *MACDResult {
	if fast <= 0 || slow <= fast || signal <= 0 || len(values) < slow+signal-1 {
		return nil
	}

	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	// Align the two series on their tails.
	n := len(slowEMA)
	macdLine := make([]float64, n)
	offset := len(fastEMA) - n
	for i := 0; i < n; i++ {
		macdLine[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signal)
	if len(signalLine) == 0 {
		return nil
	}

	m := macdLine[len(macdLine)-1]
	s := signalLine[len(signalLine)-1]
	return &MACDResult{MACD: m, Signal: s, Histogram: m - s}
}

// BollingerResult is the final band reading around the window SMA.
type BollingerResult struct {
	Middle float64 `json:"middle"`
	Upper  float64 `json:"upper"`
	Lower  float64 `json:"lower"`
}

// Bollinger computes the trailing window's SMA band at k population standard
// deviations. Nil when the series is shorter than the window.
func Bollinger(values []float64, window int, k float64) *BollingerResult {
	if window <= 0 || len(values) < window {
		return nil
	}
	tail := values[len(values)-window:]

	var sum float64
	for _, v := range tail {
		sum += v
	}
	m := sum / float64(window)

	var ss float64
	for _, v := range tail {
		d := v - m
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(window))

	return &BollingerResult{Middle: m, Upper: m + k*sd, Lower: m - k*sd}
}

// ROC returns the percentage rate of change over the trailing period. Nil
// with too few points or a zero base.
func ROC(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period+1 {
		return nil
	}
	base := values[len(values)-1-period]
	if base == 0 {
		return nil
	}
	r := (values[len(values)-1] - base) / base * 100
	return &r
}
