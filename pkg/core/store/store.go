// Package store provides access to persisted fundamental statements, price
// history and reported ratios. The analysis engines depend only on the
// StatementStore contract, never on a SQL connection.
package store

import (
	"context"
	"errors"

	"fundamental_audit/pkg/models"
)

// ErrNotFound is returned when a ticker, statement or price has no record.
// Engines translate it into an undefined result rather than an error.
var ErrNotFound = errors.New("store: not found")

// StatementStore is the narrow contract the computation core consumes.
type StatementStore interface {
	// GetStatement returns one statement snapshot, or ErrNotFound.
	GetStatement(ctx context.Context, ticker string, kind models.StatementKind, period models.PeriodType, fiscalDate string) (*models.StatementSnapshot, error)

	// GetPriceAtDate returns the last price bar at or before the given date,
	// or ErrNotFound.
	GetPriceAtDate(ctx context.Context, ticker, date string) (*models.PricePoint, error)

	// GetPriceSeries returns price bars ordered by trade date ascending.
	// limit <= 0 means no limit; upToDate == "" means no upper bound.
	GetPriceSeries(ctx context.Context, ticker string, limit int, upToDate string) ([]models.PricePoint, error)

	// GetReportedRatios returns the externally reported ratio record for the
	// key, or ErrNotFound.
	GetReportedRatios(ctx context.Context, ticker string, period models.PeriodType, fiscalDate string) (map[string]float64, error)
}
