package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundamental_audit/pkg/models"
)

// PostgresStore implements StatementStore over a pgx connection pool.
//
// Schema assumption (managed by migrations elsewhere):
//
//	CREATE TABLE statements (
//	  ticker TEXT, kind TEXT, period_type TEXT, fiscal_date DATE,
//	  fields JSONB,
//	  PRIMARY KEY (ticker, kind, period_type, fiscal_date)
//	);
//	CREATE TABLE prices (
//	  ticker TEXT, trade_date DATE,
//	  open DOUBLE PRECISION, high DOUBLE PRECISION, low DOUBLE PRECISION,
//	  close DOUBLE PRECISION, volume BIGINT,
//	  PRIMARY KEY (ticker, trade_date)
//	);
//	CREATE TABLE reported_ratios (
//	  ticker TEXT, period_type TEXT, fiscal_date DATE, ratios JSONB,
//	  PRIMARY KEY (ticker, period_type, fiscal_date)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over the given pool. A nil pool falls back
// to the package-level pool initialized by InitDB.
func NewPostgresStore(p *pgxpool.Pool) *PostgresStore {
	if p == nil {
		p = GetPool()
	}
	return &PostgresStore{pool: p}
}

var _ StatementStore = (*PostgresStore)(nil)

func (s *PostgresStore) GetStatement(ctx context.Context, ticker string, kind models.StatementKind, period models.PeriodType, fiscalDate string) (*models.StatementSnapshot, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT fields
		FROM statements
		WHERE ticker = $1 AND kind = $2 AND period_type = $3 AND fiscal_date = $4
		LIMIT 1
	`
	var fieldsJSON []byte
	err := s.pool.QueryRow(ctx, query, ticker, string(kind), string(period), fiscalDate).Scan(&fieldsJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load statement: %w", err)
	}

	// Reported values can be JSON null; those fields are treated as absent.
	raw := map[string]*float64{}
	if err := json.Unmarshal(fieldsJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statement fields: %w", err)
	}
	fields := make(map[string]float64, len(raw))
	for name, v := range raw {
		if v != nil {
			fields[name] = *v
		}
	}

	return &models.StatementSnapshot{
		Ticker:     ticker,
		Kind:       kind,
		Period:     period,
		FiscalDate: fiscalDate,
		Fields:     fields,
	}, nil
}

func (s *PostgresStore) GetPriceAtDate(ctx context.Context, ticker, date string) (*models.PricePoint, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM prices
		WHERE ticker = $1 AND trade_date <= $2
		ORDER BY trade_date DESC
		LIMIT 1
	`
	var p models.PricePoint
	err := s.pool.QueryRow(ctx, query, ticker, date).Scan(
		&p.Ticker, &p.TradeDate, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load price: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) GetPriceSeries(ctx context.Context, ticker string, limit int, upToDate string) ([]models.PricePoint, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	// The LIMIT applies to the most recent bars; re-sort ascending afterwards.
	query := `
		SELECT ticker, trade_date, open, high, low, close, volume
		FROM (
			SELECT ticker, trade_date, open, high, low, close, volume
			FROM prices
			WHERE ticker = $1 AND ($2 = '' OR trade_date <= $2::date)
			ORDER BY trade_date DESC
			LIMIT CASE WHEN $3 > 0 THEN $3 ELSE NULL END
		) recent
		ORDER BY trade_date ASC
	`
	rows, err := s.pool.Query(ctx, query, ticker, upToDate, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load price series: %w", err)
	}
	defer rows.Close()

	var series []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Ticker, &p.TradeDate, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

func (s *PostgresStore) GetReportedRatios(ctx context.Context, ticker string, period models.PeriodType, fiscalDate string) (map[string]float64, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT ratios
		FROM reported_ratios
		WHERE ticker = $1 AND period_type = $2 AND fiscal_date = $3
		LIMIT 1
	`
	var ratiosJSON []byte
	err := s.pool.QueryRow(ctx, query, ticker, string(period), fiscalDate).Scan(&ratiosJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load reported ratios: %w", err)
	}

	raw := map[string]*float64{}
	if err := json.Unmarshal(ratiosJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reported ratios: %w", err)
	}
	ratios := make(map[string]float64, len(raw))
	for name, v := range raw {
		if v != nil {
			ratios[name] = *v
		}
	}
	return ratios, nil
}
