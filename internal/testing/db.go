// Package testing provides testing utilities and helpers for the paddock project.
package testing

import (
	"os"
	"testing"

	"github.com/apexsim/paddock/internal/database"
	_ "modernc.org/sqlite"
)

// NewTestDB creates a temporary league database for testing with the full
// schema applied. Returns the database instance and a cleanup function
// that closes the connection and removes the file. The cleanup function
// is idempotent and can be called multiple times safely.
func NewTestDB(t *testing.T) (*database.DB, func()) {
	t.Helper()

	// Temporary files rather than :memory: so every connection in the
	// pool sees the same database.
	tmpFile, err := os.CreateTemp("", "test_league_*.db")
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path: tmpPath,
		Name: "league",
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db, func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			t.Logf("Warning: Failed to remove temporary database file %s: %v", tmpPath, err)
		}
	}
}
