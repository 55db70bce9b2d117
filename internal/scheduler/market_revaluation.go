package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/modules/valuation"
)

// MarketRevaluationJob recomputes the market value of every driver in
// the league and caches the results, so valuations shift as season
// results land rather than only when a negotiation happens to read one.
type MarketRevaluationJob struct {
	snapshots    SnapshotBuilder
	marketValues MarketValueWriter
	eventManager *events.Manager
	season       int
	log          zerolog.Logger
}

// NewMarketRevaluationJob creates a new market revaluation job
func NewMarketRevaluationJob(
	snapshots SnapshotBuilder,
	marketValues MarketValueWriter,
	eventManager *events.Manager,
	season int,
	log zerolog.Logger,
) *MarketRevaluationJob {
	return &MarketRevaluationJob{
		snapshots:    snapshots,
		marketValues: marketValues,
		eventManager: eventManager,
		season:       season,
		log:          log.With().Str("job", "market_revaluation").Logger(),
	}
}

// Name returns the job name
func (j *MarketRevaluationJob) Name() string {
	return "market_revaluation"
}

// Run revalues every driver against the current league snapshot
func (j *MarketRevaluationJob) Run() error {
	snapshot, err := j.snapshots.Build(j.season)
	if err != nil {
		return fmt.Errorf("failed to build market snapshot: %w", err)
	}

	revalued := 0
	for _, driver := range snapshot.Drivers {
		value := valuation.MarketValue(driver.ID, driver.History, snapshot.Drivers)

		if err := j.marketValues.Store(driver.ID, j.season, value); err != nil {
			j.log.Error().
				Err(err).
				Str("driver_id", driver.ID).
				Msg("Failed to store market value")
			continue
		}
		revalued++
	}

	j.log.Info().
		Int("drivers", revalued).
		Int("season", j.season).
		Msg("Market revaluation completed")

	j.eventManager.Emit(events.MarketRevalued, "market", &events.MarketRevaluedData{
		Season:  j.season,
		Drivers: revalued,
	})

	return nil
}
