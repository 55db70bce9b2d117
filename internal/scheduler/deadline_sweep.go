package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// DeadlineSweepJob fails every active negotiation whose response
// deadline has passed. An offer left on the table does not stay open
// forever; the counterparty moves on.
type DeadlineSweepJob struct {
	negotiations NegotiationSweeper
	log          zerolog.Logger
}

// NewDeadlineSweepJob creates a new deadline sweep job
func NewDeadlineSweepJob(negotiations NegotiationSweeper, log zerolog.Logger) *DeadlineSweepJob {
	return &DeadlineSweepJob{
		negotiations: negotiations,
		log:          log.With().Str("job", "deadline_sweep").Logger(),
	}
}

// Name returns the job name
func (j *DeadlineSweepJob) Name() string {
	return "deadline_sweep"
}

// Run closes all expired sessions
func (j *DeadlineSweepJob) Run() error {
	expired, err := j.negotiations.ExpireDue(time.Now())
	if err != nil {
		return err
	}

	if expired > 0 {
		j.log.Info().Int("expired", expired).Msg("Swept expired negotiations")
	}

	return nil
}
