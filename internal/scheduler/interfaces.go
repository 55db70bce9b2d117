package scheduler

import (
	"context"
	"time"

	"github.com/apexsim/paddock/internal/modules/market"
)

// NegotiationSweeper is the slice of the negotiation service the
// scheduled jobs drive. Defined here so jobs can be tested with stubs.
type NegotiationSweeper interface {
	RespondDue() (int, error)
	ExpireDue(now time.Time) (int, error)
}

// BackupRunner creates and rotates cloud backups
type BackupRunner interface {
	CreateAndUploadBackup(ctx context.Context) error
	RotateOldBackups(ctx context.Context, retentionDays int) error
}

// SnapshotBuilder assembles the market context for a season
type SnapshotBuilder interface {
	Build(season int) (market.Context, error)
}

// MarketValueWriter persists recomputed driver market values
type MarketValueWriter interface {
	Store(driverID string, season int, value float64) error
}
