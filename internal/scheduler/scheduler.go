// Package scheduler runs the league's background jobs on cron
// schedules: dispatching counterparty responses, sweeping expired
// negotiations, recomputing market values and shipping backups.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/events"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron         *cron.Cron
	eventManager *events.Manager
	log          zerolog.Logger
}

// New creates a new scheduler
func New(eventManager *events.Manager, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		eventManager: eventManager,
		log:          log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with a cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "@hourly"            - Every hour
//   - "0 0 4 * * *"        - 4 AM daily
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runJob(job)
	})

	if err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately, outside its schedule
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return s.runJob(job)
}

// runJob wraps a job run with logging and lifecycle events so the SSE
// stream and the news feed can follow background work.
func (s *Scheduler) runJob(job Job) error {
	s.log.Debug().Str("job", job.Name()).Msg("Running job")
	s.eventManager.Emit(events.JobStarted, "scheduler", &events.JobStatusData{
		JobName:   job.Name(),
		Status:    "started",
		Timestamp: time.Now(),
	})

	startTime := time.Now()
	if err := job.Run(); err != nil {
		s.log.Error().
			Err(err).
			Str("job", job.Name()).
			Msg("Job failed")
		s.eventManager.Emit(events.JobFailed, "scheduler", &events.JobStatusData{
			JobName:   job.Name(),
			Status:    "failed",
			Error:     err.Error(),
			Duration:  time.Since(startTime).Seconds(),
			Timestamp: time.Now(),
		})
		return err
	}

	s.log.Debug().Str("job", job.Name()).Msg("Job completed")
	s.eventManager.Emit(events.JobCompleted, "scheduler", &events.JobStatusData{
		JobName:   job.Name(),
		Status:    "completed",
		Duration:  time.Since(startTime).Seconds(),
		Timestamp: time.Now(),
	})

	return nil
}
