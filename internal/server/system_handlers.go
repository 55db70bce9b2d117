package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/apexsim/paddock/internal/database"
	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/reliability"
	"github.com/apexsim/paddock/internal/version"
)

// BackupService is the slice of the reliability service the system
// endpoints drive
type BackupService interface {
	CreateAndUploadBackup(ctx context.Context) error
	ListBackups(ctx context.Context) ([]reliability.BackupInfo, error)
}

// SystemHandlers handles system monitoring and operations endpoints
type SystemHandlers struct {
	log          zerolog.Logger
	dataDir      string
	db           *database.DB
	backups      BackupService
	eventManager *events.Manager
	startTime    time.Time
}

// NewSystemHandlers creates system handlers. backups may be nil when
// cloud backups are not configured.
func NewSystemHandlers(
	log zerolog.Logger,
	dataDir string,
	db *database.DB,
	backups BackupService,
	eventManager *events.Manager,
) *SystemHandlers {
	return &SystemHandlers{
		log:          log.With().Str("handler", "system").Logger(),
		dataDir:      dataDir,
		db:           db,
		backups:      backups,
		eventManager: eventManager,
		startTime:    time.Now(),
	}
}

// SystemStatusResponse represents the system status API response
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	DatabaseSize  float64 `json:"database_size_mb"`
	DataDirSize   float64 `json:"data_dir_size_mb"`
	LastChecked   string  `json:"last_checked"`
}

// DatabaseStatsResponse represents database statistics
type DatabaseStatsResponse struct {
	Name          string  `json:"name"`
	SizeMB        float64 `json:"size_mb"`
	WALSizeMB     float64 `json:"wal_size_mb"`
	PageCount     int64   `json:"page_count"`
	PageSize      int64   `json:"page_size"`
	FreelistCount int64   `json:"freelist_count"`
	LastChecked   string  `json:"last_checked"`
}

// HandleSystemStatus returns process and host health
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, ramPercent := h.getSystemStats()

	var dbSizeMB float64
	if stats, err := h.db.GetStats(); err == nil {
		dbSizeMB = float64(stats.SizeBytes) / 1024 / 1024
	}

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       version.Version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		DatabaseSize:  dbSizeMB,
		DataDirSize:   h.getDirSize(h.dataDir),
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	h.writeJSON(w, response)
}

// HandleDatabaseStats returns league database statistics
// GET /api/system/database/stats
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	stats, err := h.db.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	response := DatabaseStatsResponse{
		Name:          h.db.Name(),
		SizeMB:        float64(stats.SizeBytes) / 1024 / 1024,
		WALSizeMB:     float64(stats.WALSizeBytes) / 1024 / 1024,
		PageCount:     stats.PageCount,
		PageSize:      stats.PageSize,
		FreelistCount: stats.FreelistCount,
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	h.writeJSON(w, response)
}

// HandleListBackups lists archives stored in the backup bucket
// GET /api/system/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Cloud backups not configured", http.StatusServiceUnavailable)
		return
	}

	backups, err := h.backups.ListBackups(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list backups")
		http.Error(w, "Failed to list backups", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"backups": backups,
		"count":   len(backups),
	})
}

// HandleTriggerBackup starts a backup run immediately
// POST /api/system/backup
func (h *SystemHandlers) HandleTriggerBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Cloud backups not configured", http.StatusServiceUnavailable)
		return
	}

	h.log.Info().Msg("Manual backup triggered")

	// Snapshot and upload outlive the request, so run detached. The
	// outcome lands on the event stream as BACKUP_COMPLETED or
	// ERROR_OCCURRED.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := h.backups.CreateAndUploadBackup(ctx); err != nil {
			h.log.Error().Err(err).Msg("Manual backup failed")
			h.eventManager.EmitError("reliability", err, map[string]interface{}{
				"operation": "manual_backup",
			})
		}
	}()

	h.writeJSON(w, map[string]string{
		"status":  "started",
		"message": "Backup started",
	})
}

// getDirSize returns the total size of a directory in MB
func (h *SystemHandlers) getDirSize(dirPath string) float64 {
	var totalSize int64

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0
	}

	return float64(totalSize) / 1024 / 1024
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the status endpoint stays responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
