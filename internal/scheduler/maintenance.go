package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/database"
)

// DatabaseMaintenanceJob keeps the league database healthy between
// seasons: it truncates the WAL and runs a quick integrity check.
type DatabaseMaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewDatabaseMaintenanceJob creates a new database maintenance job
func NewDatabaseMaintenanceJob(db *database.DB, log zerolog.Logger) *DatabaseMaintenanceJob {
	return &DatabaseMaintenanceJob{
		db:  db,
		log: log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *DatabaseMaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run checkpoints the WAL and verifies database integrity
func (j *DatabaseMaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		return err
	}

	if err := j.db.QuickCheck(ctx); err != nil {
		return err
	}

	if stats, err := j.db.GetStats(); err == nil {
		j.log.Info().
			Int64("size_bytes", stats.SizeBytes).
			Int64("wal_bytes", stats.WALSizeBytes).
			Int64("freelist_pages", stats.FreelistCount).
			Msg("Database maintenance completed")
	}

	return nil
}

// VacuumJob reclaims free pages from the league database. VACUUM
// rewrites the whole file, so it runs on its own weekly schedule
// instead of alongside the nightly maintenance.
type VacuumJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewVacuumJob creates a new vacuum job
func NewVacuumJob(db *database.DB, log zerolog.Logger) *VacuumJob {
	return &VacuumJob{
		db:  db,
		log: log.With().Str("job", "vacuum").Logger(),
	}
}

// Name returns the job name
func (j *VacuumJob) Name() string {
	return "vacuum"
}

// Run vacuums the database
func (j *VacuumJob) Run() error {
	startTime := time.Now()

	if err := j.db.Vacuum(); err != nil {
		return err
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Vacuum completed")

	return nil
}
