package scheduler

import (
	"github.com/rs/zerolog"
)

// ResponseDispatchJob answers every negotiation currently waiting on a
// counterparty. Drivers, staff and sponsors do not reply the moment an
// offer lands; this job is the cadence at which they get around to it.
type ResponseDispatchJob struct {
	negotiations NegotiationSweeper
	log          zerolog.Logger
}

// NewResponseDispatchJob creates a new response dispatch job
func NewResponseDispatchJob(negotiations NegotiationSweeper, log zerolog.Logger) *ResponseDispatchJob {
	return &ResponseDispatchJob{
		negotiations: negotiations,
		log:          log.With().Str("job", "response_dispatch").Logger(),
	}
}

// Name returns the job name
func (j *ResponseDispatchJob) Name() string {
	return "response_dispatch"
}

// Run answers all pending proposals
func (j *ResponseDispatchJob) Run() error {
	answered, err := j.negotiations.RespondDue()
	if err != nil {
		return err
	}

	if answered > 0 {
		j.log.Info().Int("answered", answered).Msg("Dispatched counterparty responses")
	}

	return nil
}
