package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
)

// StandingsRepository provides access to the standings table.
type StandingsRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStandingsRepository creates a new standings repository
func NewStandingsRepository(db *sql.DB, log zerolog.Logger) *StandingsRepository {
	return &StandingsRepository{
		db:  db,
		log: log.With().Str("repository", "standings").Logger(),
	}
}

// Upsert records or updates one team's line in a season table.
func (r *StandingsRepository) Upsert(s domain.Standing) error {
	_, err := r.db.Exec(`
		INSERT INTO standings (season, team_id, position, points)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(season, team_id) DO UPDATE SET
			position = excluded.position,
			points = excluded.points
	`, s.Season, s.TeamID, s.Position, s.Points)
	if err != nil {
		return fmt.Errorf("failed to upsert standing %s/%d: %w", s.TeamID, s.Season, err)
	}
	return nil
}

// SeasonTable returns a season's standings ordered by position.
func (r *StandingsRepository) SeasonTable(season int) ([]domain.Standing, error) {
	rows, err := r.db.Query(`
		SELECT season, team_id, position, points
		FROM standings WHERE season = ? ORDER BY position
	`, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for season %d: %w", season, err)
	}
	defer rows.Close()

	var table []domain.Standing
	for rows.Next() {
		var s domain.Standing
		if err := rows.Scan(&s.Season, &s.TeamID, &s.Position, &s.Points); err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		table = append(table, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}

	return table, nil
}

// Positions maps team id to constructors' position for one season.
func (r *StandingsRepository) Positions(season int) (map[string]int, error) {
	table, err := r.SeasonTable(season)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]int, len(table))
	for _, s := range table {
		positions[s.TeamID] = s.Position
	}
	return positions, nil
}
