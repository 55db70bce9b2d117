package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
)

// ChiefRepository provides access to the chiefs table.
type ChiefRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewChiefRepository creates a new chief repository
func NewChiefRepository(db *sql.DB, log zerolog.Logger) *ChiefRepository {
	return &ChiefRepository{
		db:  db,
		log: log.With().Str("repository", "chiefs").Logger(),
	}
}

// Upsert inserts or updates a chief.
func (r *ChiefRepository) Upsert(c domain.Chief) error {
	_, err := r.db.Exec(`
		INSERT INTO chiefs (id, name, age, department, team_id, salary, contract_years, ability, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			department = excluded.department,
			team_id = excluded.team_id,
			salary = excluded.salary,
			contract_years = excluded.contract_years,
			ability = excluded.ability,
			updated_at = excluded.updated_at
	`, c.ID, c.Name, c.Age, string(c.Department), nullableTeam(c.TeamID), c.Salary, c.ContractYears, c.Ability)
	if err != nil {
		return fmt.Errorf("failed to upsert chief %s: %w", c.ID, err)
	}
	return nil
}

// GetByID returns a chief, or nil if they do not exist.
func (r *ChiefRepository) GetByID(id string) (*domain.Chief, error) {
	var c domain.Chief
	var teamID sql.NullString
	var department string
	err := r.db.QueryRow(`
		SELECT id, name, age, department, team_id, salary, contract_years, ability
		FROM chiefs WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Age, &department, &teamID, &c.Salary, &c.ContractYears, &c.Ability)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chief %s: %w", id, err)
	}
	c.Department = domain.Department(department)
	c.TeamID = teamID.String
	return &c, nil
}

// List returns every chief, ordered by id for stable output.
func (r *ChiefRepository) List() ([]domain.Chief, error) {
	rows, err := r.db.Query(`
		SELECT id, name, age, department, team_id, salary, contract_years, ability
		FROM chiefs ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chiefs: %w", err)
	}
	defer rows.Close()

	var chiefs []domain.Chief
	for rows.Next() {
		var c domain.Chief
		var teamID sql.NullString
		var department string
		if err := rows.Scan(&c.ID, &c.Name, &c.Age, &department, &teamID, &c.Salary, &c.ContractYears, &c.Ability); err != nil {
			return nil, fmt.Errorf("failed to scan chief: %w", err)
		}
		c.Department = domain.Department(department)
		c.TeamID = teamID.String
		chiefs = append(chiefs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chiefs: %w", err)
	}

	return chiefs, nil
}

// SignContract places a chief at a team under the given terms.
func (r *ChiefRepository) SignContract(chiefID, teamID string, salary float64, years int) error {
	res, err := r.db.Exec(`
		UPDATE chiefs
		SET team_id = ?, salary = ?, contract_years = ?, updated_at = datetime('now')
		WHERE id = ?
	`, teamID, salary, years, chiefID)
	if err != nil {
		return fmt.Errorf("failed to sign chief %s: %w", chiefID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("chief %s not found", chiefID)
	}

	r.log.Info().
		Str("chief_id", chiefID).
		Str("team_id", teamID).
		Float64("salary", salary).
		Int("years", years).
		Msg("Chief contract signed")

	return nil
}

// Release detaches a chief from their team.
func (r *ChiefRepository) Release(chiefID string) error {
	_, err := r.db.Exec(`
		UPDATE chiefs
		SET team_id = NULL, contract_years = 0, updated_at = datetime('now')
		WHERE id = ?
	`, chiefID)
	if err != nil {
		return fmt.Errorf("failed to release chief %s: %w", chiefID, err)
	}
	return nil
}
