package technical

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fundamental_audit/pkg/core/store"
	"fundamental_audit/pkg/models"
)

const testTicker = "ACME"

func seedPrices(s *store.MemoryStore, n int) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.PutPrice(models.PricePoint{
			Ticker:    testTicker,
			TradeDate: start.AddDate(0, 0, i),
			Close:     100 + float64(i),
		})
	}
}

func TestAnalyzeFullHistory(t *testing.T) {
	s := store.NewMemoryStore()
	seedPrices(s, 60)
	e := NewEngine(s)

	snap := e.Analyze(context.Background(), testTicker, "")
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.BarCount != 60 || snap.LastClose != 159 {
		t.Fatalf("unexpected shape: %d bars, last %f", snap.BarCount, snap.LastClose)
	}

	// A linear ramp pins the rolling stats: SMA20 averages 140..159.
	if snap.SMA20 == nil || *snap.SMA20 != 149.5 {
		t.Errorf("SMA20: expected 149.5, got %v", snap.SMA20)
	}
	if snap.SMA50 == nil || *snap.SMA50 != 134.5 {
		t.Errorf("SMA50: expected 134.5, got %v", snap.SMA50)
	}
	if snap.RSI14 == nil || *snap.RSI14 != 100 {
		t.Errorf("RSI14: expected 100 on a pure uptrend, got %v", snap.RSI14)
	}
	if snap.MACD == nil || snap.MACD.MACD <= 0 {
		t.Errorf("MACD should be positive in an uptrend: %+v", snap.MACD)
	}
	if snap.Bollinger == nil || snap.Bollinger.Middle != 149.5 {
		t.Errorf("Bollinger middle should match SMA20: %+v", snap.Bollinger)
	}
	if snap.ROC10 == nil || *snap.ROC10 <= 0 {
		t.Errorf("ROC10 should be positive: %v", snap.ROC10)
	}
}

func TestAnalyzeShortHistoryDegrades(t *testing.T) {
	s := store.NewMemoryStore()
	seedPrices(s, 25)
	e := NewEngine(s)

	snap := e.Analyze(context.Background(), testTicker, "")
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	// 25 bars: SMA20 and RSI14 resolve, SMA50 and MACD do not.
	if snap.SMA20 == nil || snap.RSI14 == nil {
		t.Error("short-window indicators should still resolve")
	}
	if snap.SMA50 != nil || snap.MACD != nil {
		t.Error("long-window indicators must be nil on 25 bars")
	}
}

func TestAnalyzeUpToDate(t *testing.T) {
	s := store.NewMemoryStore()
	seedPrices(s, 60)
	e := NewEngine(s)

	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 29)
	snap := e.Analyze(context.Background(), testTicker, cutoff.Format(models.FiscalDateLayout))
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.BarCount != 30 {
		t.Errorf("expected 30 bars up to the cutoff, got %d", snap.BarCount)
	}
	if snap.LastClose != 129 {
		t.Errorf("expected last close 129, got %f", snap.LastClose)
	}
}

func TestAnalyzeNoHistory(t *testing.T) {
	e := NewEngine(store.NewMemoryStore())
	if snap := e.Analyze(context.Background(), testTicker, ""); snap != nil {
		t.Errorf("expected nil without prices, got %+v", snap)
	}
}

func TestCloses(t *testing.T) {
	s := store.NewMemoryStore()
	seedPrices(s, 3)
	e := NewEngine(s)

	closes := e.Closes(context.Background(), testTicker, "")
	want := []float64{100, 101, 102}
	if fmt.Sprint(closes) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, closes)
	}
}
