package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// backupTimeout bounds one backup run, upload included
const backupTimeout = 10 * time.Minute

// BackupJob ships a fresh archive of the league database to object
// storage and rotates out archives past the retention window.
type BackupJob struct {
	backups       BackupRunner
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(backups BackupRunner, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backups:       backups,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "cloud_backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "cloud_backup"
}

// Run uploads a backup and rotates old ones
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	if err := j.backups.CreateAndUploadBackup(ctx); err != nil {
		return err
	}

	if err := j.backups.RotateOldBackups(ctx, j.retentionDays); err != nil {
		// The archive is already safe; rotation can wait for the next run.
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	return nil
}
