package technical

import (
	"context"

	"fundamental_audit/pkg/core/store"
)

// Engine runs the indicator set over stored price history.
type Engine struct {
	store store.StatementStore
}

// NewEngine creates a technical engine over the statement store.
func NewEngine(s store.StatementStore) *Engine {
	return &Engine{store: s}
}

// Snapshot is the latest reading of the standard indicator set for one
// ticker. Individual indicators are nil when the history is too short.
type Snapshot struct {
	Ticker    string `json:"ticker"`
	AsOf      string `json:"as_of,omitempty"`
	BarCount  int    `json:"bar_count"`
	LastClose float64 `json:"last_close"`

	SMA20     *float64         `json:"sma_20"`
	SMA50     *float64         `json:"sma_50"`
	EMA20     *float64         `json:"ema_20"`
	RSI14     *float64         `json:"rsi_14"`
	MACD      *MACDResult      `json:"macd"`
	Bollinger *BollingerResult `json:"bollinger"`
	ROC10     *float64         `json:"roc_10"`
}

// Analyze loads the ticker's closes up to the given date (blank for the full
// history) and computes the standard indicator set. Undefined when no price
// history exists.
func (e *Engine) Analyze(ctx context.Context, ticker, upToDate string) *Snapshot {
	series, err := e.store.GetPriceSeries(ctx, ticker, 0, upToDate)
	if err != nil || len(series) == 0 {
		return nil
	}

	closes := make([]float64, len(series))
	for i, bar := range series {
		closes[i] = bar.Close
	}

	snap := &Snapshot{
		Ticker:    ticker,
		AsOf:      upToDate,
		BarCount:  len(closes),
		LastClose: closes[len(closes)-1],
	}
	snap.SMA20 = lastOf(SMA(closes, 20))
	snap.SMA50 = lastOf(SMA(closes, 50))
	snap.EMA20 = lastOf(EMA(closes, 20))
	snap.RSI14 = RSI(closes, 14)
	snap.MACD = MACD(closes, 12, 26, 9)
	snap.Bollinger = Bollinger(closes, 20, 2)
	snap.ROC10 = ROC(closes, 10)
	return snap
}

// Closes returns the ordered close prices for a ticker, nil when no history
// exists.
func (e *Engine) Closes(ctx context.Context, ticker, upToDate string) []float64 {
	series, err := e.store.GetPriceSeries(ctx, ticker, 0, upToDate)
	if err != nil {
		return nil
	}
	closes := make([]float64, len(series))
	for i, bar := range series {
		closes[i] = bar.Close
	}
	return closes
}

func lastOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	v := values[len(values)-1]
	return &v
}
