package roster

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/domain"
)

// DriverRepository provides access to the drivers and driver_seasons tables.
type DriverRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *sql.DB, log zerolog.Logger) *DriverRepository {
	return &DriverRepository{
		db:  db,
		log: log.With().Str("repository", "drivers").Logger(),
	}
}

// Upsert inserts or updates a driver's identity, employment and
// attributes. Season history is written separately via UpsertSeason.
func (r *DriverRepository) Upsert(d domain.Driver) error {
	_, err := r.db.Exec(`
		INSERT INTO drivers (
			id, name, age, team_id, salary, contract_years,
			pace, consistency, racecraft, overtaking, defending, wet_weather, fitness,
			updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			age = excluded.age,
			team_id = excluded.team_id,
			salary = excluded.salary,
			contract_years = excluded.contract_years,
			pace = excluded.pace,
			consistency = excluded.consistency,
			racecraft = excluded.racecraft,
			overtaking = excluded.overtaking,
			defending = excluded.defending,
			wet_weather = excluded.wet_weather,
			fitness = excluded.fitness,
			updated_at = excluded.updated_at
	`,
		d.ID, d.Name, d.Age, nullableTeam(d.TeamID), d.Salary, d.ContractYears,
		d.Attributes.Pace, d.Attributes.Consistency, d.Attributes.Racecraft,
		d.Attributes.Overtaking, d.Attributes.Defending, d.Attributes.WetWeather,
		d.Attributes.Fitness,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert driver %s: %w", d.ID, err)
	}
	return nil
}

// GetByID returns a driver with full season history, or nil if the
// driver does not exist.
func (r *DriverRepository) GetByID(id string) (*domain.Driver, error) {
	var d domain.Driver
	var teamID sql.NullString
	err := r.db.QueryRow(`
		SELECT id, name, age, team_id, salary, contract_years,
			pace, consistency, racecraft, overtaking, defending, wet_weather, fitness
		FROM drivers WHERE id = ?
	`, id).Scan(
		&d.ID, &d.Name, &d.Age, &teamID, &d.Salary, &d.ContractYears,
		&d.Attributes.Pace, &d.Attributes.Consistency, &d.Attributes.Racecraft,
		&d.Attributes.Overtaking, &d.Attributes.Defending, &d.Attributes.WetWeather,
		&d.Attributes.Fitness,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver %s: %w", id, err)
	}
	d.TeamID = teamID.String

	history, err := r.History(id)
	if err != nil {
		return nil, err
	}
	d.History = history

	return &d, nil
}

// List returns every driver with season history attached. Histories are
// loaded in one pass and grouped, so building a full market snapshot
// costs two queries regardless of grid size.
func (r *DriverRepository) List() ([]domain.Driver, error) {
	rows, err := r.db.Query(`
		SELECT id, name, age, team_id, salary, contract_years,
			pace, consistency, racecraft, overtaking, defending, wet_weather, fitness
		FROM drivers ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query drivers: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver
	for rows.Next() {
		var d domain.Driver
		var teamID sql.NullString
		if err := rows.Scan(
			&d.ID, &d.Name, &d.Age, &teamID, &d.Salary, &d.ContractYears,
			&d.Attributes.Pace, &d.Attributes.Consistency, &d.Attributes.Racecraft,
			&d.Attributes.Overtaking, &d.Attributes.Defending, &d.Attributes.WetWeather,
			&d.Attributes.Fitness,
		); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		d.TeamID = teamID.String
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating drivers: %w", err)
	}

	histories, err := r.allHistories()
	if err != nil {
		return nil, err
	}
	for i := range drivers {
		drivers[i].History = histories[drivers[i].ID]
	}

	return drivers, nil
}

// History returns a driver's season records, most recent first.
func (r *DriverRepository) History(driverID string) ([]domain.SeasonRecord, error) {
	rows, err := r.db.Query(`
		SELECT season, COALESCE(team_id, ''), races, points, team_points
		FROM driver_seasons WHERE driver_id = ? ORDER BY season DESC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons for driver %s: %w", driverID, err)
	}
	defer rows.Close()

	var records []domain.SeasonRecord
	for rows.Next() {
		var rec domain.SeasonRecord
		if err := rows.Scan(&rec.Season, &rec.TeamID, &rec.Races, &rec.Points, &rec.TeamPoints); err != nil {
			return nil, fmt.Errorf("failed to scan season record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating season records: %w", err)
	}

	return records, nil
}

// UpsertSeason records or updates one season line for a driver.
func (r *DriverRepository) UpsertSeason(driverID string, rec domain.SeasonRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO driver_seasons (driver_id, season, team_id, races, points, team_points)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(driver_id, season) DO UPDATE SET
			team_id = excluded.team_id,
			races = excluded.races,
			points = excluded.points,
			team_points = excluded.team_points
	`, driverID, rec.Season, rec.TeamID, rec.Races, rec.Points, rec.TeamPoints)
	if err != nil {
		return fmt.Errorf("failed to upsert season %d for driver %s: %w", rec.Season, driverID, err)
	}
	return nil
}

// SignContract places a driver at a team under the given terms.
func (r *DriverRepository) SignContract(driverID, teamID string, salary float64, years int) error {
	res, err := r.db.Exec(`
		UPDATE drivers
		SET team_id = ?, salary = ?, contract_years = ?, updated_at = datetime('now')
		WHERE id = ?
	`, teamID, salary, years, driverID)
	if err != nil {
		return fmt.Errorf("failed to sign driver %s: %w", driverID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("driver %s not found", driverID)
	}

	r.log.Info().
		Str("driver_id", driverID).
		Str("team_id", teamID).
		Float64("salary", salary).
		Int("years", years).
		Msg("Driver contract signed")

	return nil
}

// Release makes a driver a free agent.
func (r *DriverRepository) Release(driverID string) error {
	_, err := r.db.Exec(`
		UPDATE drivers
		SET team_id = NULL, contract_years = 0, updated_at = datetime('now')
		WHERE id = ?
	`, driverID)
	if err != nil {
		return fmt.Errorf("failed to release driver %s: %w", driverID, err)
	}
	return nil
}

// allHistories loads every season record grouped by driver.
func (r *DriverRepository) allHistories() (map[string][]domain.SeasonRecord, error) {
	rows, err := r.db.Query(`
		SELECT driver_id, season, COALESCE(team_id, ''), races, points, team_points
		FROM driver_seasons ORDER BY driver_id, season DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query driver seasons: %w", err)
	}
	defer rows.Close()

	histories := make(map[string][]domain.SeasonRecord)
	for rows.Next() {
		var driverID string
		var rec domain.SeasonRecord
		if err := rows.Scan(&driverID, &rec.Season, &rec.TeamID, &rec.Races, &rec.Points, &rec.TeamPoints); err != nil {
			return nil, fmt.Errorf("failed to scan season record: %w", err)
		}
		histories[driverID] = append(histories[driverID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating driver seasons: %w", err)
	}

	return histories, nil
}

// nullableTeam maps the empty team id (free agent) onto NULL.
func nullableTeam(teamID string) interface{} {
	if teamID == "" {
		return nil
	}
	return teamID
}
