package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// MarketValueRepository caches the nightly revaluation of every driver.
// Live negotiations always recompute from the current snapshot; this
// table exists for list endpoints and trend reporting.
type MarketValueRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMarketValueRepository creates a new market value repository
func NewMarketValueRepository(db *sql.DB, log zerolog.Logger) *MarketValueRepository {
	return &MarketValueRepository{
		db:  db,
		log: log.With().Str("repository", "market_values").Logger(),
	}
}

// Store writes a driver's computed market value.
func (r *MarketValueRepository) Store(driverID string, season int, value float64) error {
	_, err := r.db.Exec(`
		INSERT INTO market_values (driver_id, season, value, computed_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(driver_id) DO UPDATE SET
			season = excluded.season,
			value = excluded.value,
			computed_at = excluded.computed_at
	`, driverID, season, value)
	if err != nil {
		return fmt.Errorf("failed to store market value for %s: %w", driverID, err)
	}
	return nil
}

// Get returns a driver's cached market value, if one has been computed.
func (r *MarketValueRepository) Get(driverID string) (float64, bool, error) {
	var value float64
	err := r.db.QueryRow(`
		SELECT value FROM market_values WHERE driver_id = ?
	`, driverID).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get market value for %s: %w", driverID, err)
	}
	return value, true, nil
}

// All returns every cached market value keyed by driver id.
func (r *MarketValueRepository) All() (map[string]float64, error) {
	rows, err := r.db.Query(`SELECT driver_id, value FROM market_values`)
	if err != nil {
		return nil, fmt.Errorf("failed to query market values: %w", err)
	}
	defer rows.Close()

	values := make(map[string]float64)
	for rows.Next() {
		var driverID string
		var value float64
		if err := rows.Scan(&driverID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan market value: %w", err)
		}
		values[driverID] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market values: %w", err)
	}

	return values, nil
}
