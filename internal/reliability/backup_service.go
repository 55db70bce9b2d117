// Package reliability manages cloud backups of the league database:
// snapshotting, archiving, uploading and rotating old archives.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/database"
	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/version"
)

// ObjectStore is the slice of the S3 client the backup service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64) error
	List(ctx context.Context, prefix string) ([]types.Object, error)
	Delete(ctx context.Context, key string) error
}

// BackupService snapshots the league database, wraps it in a tar.gz
// archive together with a metadata file, and ships it to object storage.
type BackupService struct {
	store        ObjectStore
	db           *database.DB
	eventManager *events.Manager
	dataDir      string
	prefix       string
	log          zerolog.Logger
}

// BackupMetadata describes one archive, written alongside the snapshot
// so a restore can verify what it is unpacking.
type BackupMetadata struct {
	Timestamp      time.Time        `json:"timestamp"`
	Version        string           `json:"version"`
	PaddockVersion string           `json:"paddock_version"`
	Database       DatabaseMetadata `json:"database"`
}

// DatabaseMetadata describes the database snapshot inside an archive
type DatabaseMetadata struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// BackupInfo represents one archive stored in the bucket
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// NewBackupService creates a backup service. The prefix names the
// archives, so "paddock" yields paddock-backup-<timestamp>.tar.gz keys.
func NewBackupService(
	store ObjectStore,
	db *database.DB,
	eventManager *events.Manager,
	dataDir string,
	prefix string,
	log zerolog.Logger,
) *BackupService {
	return &BackupService{
		store:        store,
		db:           db,
		eventManager: eventManager,
		dataDir:      dataDir,
		prefix:       prefix,
		log:          log.With().Str("service", "backup").Logger(),
	}
}

// CreateAndUploadBackup snapshots the league database and uploads a
// fresh archive to the bucket
func (s *BackupService) CreateAndUploadBackup(ctx context.Context) error {
	s.log.Info().Msg("Starting cloud backup")
	startTime := time.Now()

	// A stale staging dir from a crashed run would make VACUUM INTO
	// refuse the destination, so clear it before use.
	stagingDir := filepath.Join(s.dataDir, "backup-staging")
	if err := os.RemoveAll(stagingDir); err != nil {
		return fmt.Errorf("failed to clear staging directory: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	snapshotName := s.db.Name() + ".db"
	snapshotPath := filepath.Join(stagingDir, snapshotName)

	s.log.Debug().Str("database", s.db.Name()).Msg("Snapshotting database")

	if err := s.db.BackupTo(snapshotPath); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}

	info, err := os.Stat(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to stat snapshot: %w", err)
	}

	checksum, err := s.calculateChecksum(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	metadata := BackupMetadata{
		Timestamp:      time.Now().UTC(),
		Version:        "1.0.0",
		PaddockVersion: version.Version,
		Database: DatabaseMetadata{
			Name:      s.db.Name(),
			Filename:  snapshotName,
			SizeBytes: info.Size(),
			Checksum:  checksum,
		},
	}

	metadataPath := filepath.Join(stagingDir, "backup-metadata.json")
	if err := s.writeMetadata(metadataPath, metadata); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	archiveName := fmt.Sprintf("%s-backup-%s.tar.gz", s.prefix, timestamp)
	archivePath := filepath.Join(stagingDir, archiveName)

	if err := s.createArchive(archivePath, stagingDir, []string{snapshotName, "backup-metadata.json"}); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.store.Upload(ctx, archiveName, archiveFile, archiveInfo.Size()); err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}

	duration := time.Since(startTime)
	s.log.Info().
		Dur("duration_ms", duration).
		Str("archive", archiveName).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Cloud backup completed")

	s.eventManager.Emit(events.BackupCompleted, "reliability", &events.BackupCompletedData{
		Archive:   archiveName,
		SizeBytes: archiveInfo.Size(),
		Duration:  duration.Seconds(),
	})

	return nil
}

// ListBackups lists the archives stored in the bucket, newest first
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	keyPrefix := s.prefix + "-backup-"

	objects, err := s.store.List(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]BackupInfo, 0, len(objects))
	now := time.Now()

	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}

		// Keys look like paddock-backup-2026-08-25-041500.tar.gz
		filename := *obj.Key
		if !strings.HasPrefix(filename, keyPrefix) || !strings.HasSuffix(filename, ".tar.gz") {
			continue
		}

		timestampStr := strings.TrimPrefix(filename, keyPrefix)
		timestampStr = strings.TrimSuffix(timestampStr, ".tar.gz")

		timestamp, err := time.Parse("2006-01-02-150405", timestampStr)
		if err != nil {
			s.log.Warn().Str("filename", filename).Msg("Failed to parse timestamp from filename")
			continue
		}

		var sizeBytes int64
		if obj.Size != nil {
			sizeBytes = *obj.Size
		}

		backups = append(backups, BackupInfo{
			Filename:  filename,
			Timestamp: timestamp,
			SizeBytes: sizeBytes,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// RotateOldBackups deletes archives older than the retention period.
// The newest three survive regardless of age, and a retention of zero
// days keeps everything.
func (s *BackupService) RotateOldBackups(ctx context.Context, retentionDays int) error {
	s.log.Info().Int("retention_days", retentionDays).Msg("Starting backup rotation")

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return err
	}

	const minBackupsToKeep = 3
	if len(backups) <= minBackupsToKeep {
		s.log.Info().Int("count", len(backups)).Msg("Too few backups to rotate")
		return nil
	}

	var cutoffTime time.Time
	if retentionDays > 0 {
		cutoffTime = time.Now().AddDate(0, 0, -retentionDays)
	}

	deletedCount := 0
	for i, backup := range backups {
		if i < minBackupsToKeep {
			continue
		}

		if retentionDays == 0 {
			continue
		}

		if backup.Timestamp.Before(cutoffTime) {
			if err := s.store.Delete(ctx, backup.Filename); err != nil {
				s.log.Error().
					Err(err).
					Str("filename", backup.Filename).
					Msg("Failed to delete old backup")
				continue
			}

			s.log.Info().
				Str("filename", backup.Filename).
				Time("timestamp", backup.Timestamp).
				Msg("Deleted old backup")

			deletedCount++
		}
	}

	s.log.Info().
		Int("deleted", deletedCount).
		Int("remaining", len(backups)-deletedCount).
		Msg("Backup rotation completed")

	return nil
}

// calculateChecksum calculates the SHA256 checksum of a file
func (s *BackupService) calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

// writeMetadata writes backup metadata to a JSON file
func (s *BackupService) writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive creates a tar.gz archive of the named staging files
func (s *BackupService) createArchive(archivePath, sourceDir string, filenames []string) error {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer archiveFile.Close()

	gzipWriter := gzip.NewWriter(archiveFile)
	defer gzipWriter.Close()

	tarWriter := tar.NewWriter(gzipWriter)
	defer tarWriter.Close()

	for _, filename := range filenames {
		filePath := filepath.Join(sourceDir, filename)
		if err := s.addFileToArchive(tarWriter, filePath, filename); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", filename, err)
		}
	}

	return nil
}

// addFileToArchive adds a single file to a tar archive
func (s *BackupService) addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	if _, err := io.Copy(tarWriter, file); err != nil {
		return err
	}

	return nil
}
