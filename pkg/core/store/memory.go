package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fundamental_audit/pkg/models"
)

// MemoryStore is an in-memory StatementStore used in tests and local tooling.
type MemoryStore struct {
	mu         sync.RWMutex
	statements map[string]*models.StatementSnapshot
	prices     map[string][]models.PricePoint
	reported   map[string]map[string]float64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statements: make(map[string]*models.StatementSnapshot),
		prices:     make(map[string][]models.PricePoint),
		reported:   make(map[string]map[string]float64),
	}
}

var _ StatementStore = (*MemoryStore)(nil)

func statementKey(ticker string, kind models.StatementKind, period models.PeriodType, fiscalDate string) string {
	return fmt.Sprintf("%s|%s|%s|%s", ticker, kind, period, fiscalDate)
}

func reportedKey(ticker string, period models.PeriodType, fiscalDate string) string {
	return fmt.Sprintf("%s|%s|%s", ticker, period, fiscalDate)
}

// PutStatement stores a snapshot for the given key. Fields are copied.
func (s *MemoryStore) PutStatement(ticker string, kind models.StatementKind, period models.PeriodType, fiscalDate string, fields map[string]float64) {
	copied := make(map[string]float64, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	snap := &models.StatementSnapshot{
		Ticker:     ticker,
		Kind:       kind,
		Period:     period,
		FiscalDate: fiscalDate,
		Fields:     copied,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements[statementKey(ticker, kind, period, fiscalDate)] = snap
}

// PutPrice appends a price bar; the series is kept ordered by trade date.
func (s *MemoryStore) PutPrice(p models.PricePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	series := append(s.prices[p.Ticker], p)
	sort.Slice(series, func(i, j int) bool { return series[i].TradeDate.Before(series[j].TradeDate) })
	s.prices[p.Ticker] = series
}

// PutReportedRatios stores a reported-ratio record for the given key.
func (s *MemoryStore) PutReportedRatios(ticker string, period models.PeriodType, fiscalDate string, ratios map[string]float64) {
	copied := make(map[string]float64, len(ratios))
	for k, v := range ratios {
		copied[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reported[reportedKey(ticker, period, fiscalDate)] = copied
}

func (s *MemoryStore) GetStatement(_ context.Context, ticker string, kind models.StatementKind, period models.PeriodType, fiscalDate string) (*models.StatementSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.statements[statementKey(ticker, kind, period, fiscalDate)]
	if !ok {
		return nil, ErrNotFound
	}
	return snap, nil
}

func (s *MemoryStore) GetPriceAtDate(_ context.Context, ticker, date string) (*models.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	series := s.prices[ticker]
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].TradeDate.Format(models.FiscalDateLayout) <= date {
			p := series[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetPriceSeries(_ context.Context, ticker string, limit int, upToDate string) ([]models.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PricePoint
	for _, p := range s.prices[ticker] {
		if upToDate != "" && p.TradeDate.Format(models.FiscalDateLayout) > upToDate {
			continue
		}
		out = append(out, p)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *MemoryStore) GetReportedRatios(_ context.Context, ticker string, period models.PeriodType, fiscalDate string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ratios, ok := s.reported[reportedKey(ticker, period, fiscalDate)]
	if !ok {
		return nil, ErrNotFound
	}
	return ratios, nil
}
