// Package roster provides repositories for the league's teams, people and
// sponsor deals stored in the league database. Repositories return domain
// snapshots; all mutation goes through explicit operations so evaluators
// can stay pure.
package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
)

// TeamRepository provides access to the teams table.
type TeamRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *sql.DB, log zerolog.Logger) *TeamRepository {
	return &TeamRepository{
		db:  db,
		log: log.With().Str("repository", "teams").Logger(),
	}
}

// Upsert inserts or updates a team.
func (r *TeamRepository) Upsert(team domain.Team) error {
	_, err := r.db.Exec(`
		INSERT INTO teams (id, name, budget, seats, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			budget = excluded.budget,
			seats = excluded.seats,
			updated_at = excluded.updated_at
	`, team.ID, team.Name, team.Budget, team.Seats)
	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", team.ID, err)
	}
	return nil
}

// GetByID returns a team, or nil if it does not exist.
func (r *TeamRepository) GetByID(id string) (*domain.Team, error) {
	var team domain.Team
	err := r.db.QueryRow(`
		SELECT id, name, budget, seats FROM teams WHERE id = ?
	`, id).Scan(&team.ID, &team.Name, &team.Budget, &team.Seats)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	return &team, nil
}

// List returns every team, ordered by id for stable output.
func (r *TeamRepository) List() ([]domain.Team, error) {
	rows, err := r.db.Query(`SELECT id, name, budget, seats FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Budget, &team.Seats); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}
