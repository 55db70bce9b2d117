// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir      string // Base directory for the league database and backup staging
	DatabasePath string
	Port         int
	DevMode      bool
	LogLevel     string

	// CurrentSeason is the season negotiations are held for. Standings
	// are always read from the season before it.
	CurrentSeason int

	// LeagueMaxContractYears caps the duration of any contract written in
	// this league, player and AI alike.
	LeagueMaxContractYears int

	Backup *BackupConfig
}

// BackupConfig holds cloud backup configuration. Backups stay disabled
// unless a bucket and credentials are provided.
type BackupConfig struct {
	Enabled         bool
	Bucket          string
	Prefix          string
	Endpoint        string // custom S3-compatible endpoint, empty for AWS
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	RetentionDays   int
}

// Configured reports whether enough is set to actually run a backup.
func (b *BackupConfig) Configured() bool {
	return b.Enabled && b.Bucket != "" && b.AccessKeyID != "" && b.SecretAccessKey != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("PADDOCK_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:                absDataDir,
		DatabasePath:           getEnv("DATABASE_PATH", filepath.Join(absDataDir, "league.db")),
		Port:                   getEnvAsInt("PORT", 8090),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		CurrentSeason:          getEnvAsInt("LEAGUE_SEASON", time.Now().Year()),
		LeagueMaxContractYears: getEnvAsInt("LEAGUE_MAX_CONTRACT_YEARS", 5),
		Backup:                 loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.LeagueMaxContractYears < 1 {
		return fmt.Errorf("league max contract years must be at least 1, got %d", c.LeagueMaxContractYears)
	}
	if c.CurrentSeason < 1 {
		return fmt.Errorf("invalid league season %d", c.CurrentSeason)
	}
	if c.Backup.Enabled && c.Backup.Bucket == "" {
		return fmt.Errorf("BACKUP_ENABLED is set but BACKUP_S3_BUCKET is empty")
	}
	return nil
}

// loadBackupConfig reads cloud backup settings; all optional.
func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Enabled:         getEnvAsBool("BACKUP_ENABLED", false),
		Bucket:          getEnv("BACKUP_S3_BUCKET", ""),
		Prefix:          getEnv("BACKUP_S3_PREFIX", "paddock"),
		Endpoint:        getEnv("BACKUP_S3_ENDPOINT", ""),
		Region:          getEnv("BACKUP_S3_REGION", "auto"),
		AccessKeyID:     getEnv("BACKUP_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_S3_SECRET_ACCESS_KEY", ""),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
