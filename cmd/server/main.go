// Package main is the entry point for the paddock league server. It
// wires the negotiation engine, scouting desk and market analytics over
// a single SQLite league database, runs the background jobs that keep
// the league moving, and serves the HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/apexsim/paddock/internal/config"
	"github.com/apexsim/paddock/internal/database"
	"github.com/apexsim/paddock/internal/evaluation/workers"
	"github.com/apexsim/paddock/internal/events"
	"github.com/apexsim/paddock/internal/modules/market"
	"github.com/apexsim/paddock/internal/modules/negotiation"
	"github.com/apexsim/paddock/internal/modules/roster"
	"github.com/apexsim/paddock/internal/modules/scouting"
	"github.com/apexsim/paddock/internal/reliability"
	"github.com/apexsim/paddock/internal/scheduler"
	"github.com/apexsim/paddock/internal/server"
	"github.com/apexsim/paddock/internal/services"
	"github.com/apexsim/paddock/internal/version"
	"github.com/apexsim/paddock/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("DEV_MODE") == "true",
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("version", version.Version).Msg("Starting paddock")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize the league database
	db, err := database.New(database.Config{
		Path: cfg.DatabasePath,
		Name: "league",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// The event bus feeds the SSE stream and background jobs
	eventBus := events.NewBus(log)
	eventManager := events.NewManager(eventBus, log)

	// Repositories
	conn := db.Conn()
	teams := roster.NewTeamRepository(conn, log)
	drivers := roster.NewDriverRepository(conn, log)
	chiefs := roster.NewChiefRepository(conn, log)
	sponsors := roster.NewSponsorRepository(conn, log)
	standings := roster.NewStandingsRepository(conn, log)
	relationships := roster.NewRelationshipRepository(conn, log)
	marketValues := roster.NewMarketValueRepository(conn, log)
	sessions := negotiation.NewRepository(conn, log)

	// Services
	snapshots := market.NewBuilder(teams, drivers, chiefs, standings, sponsors, log)
	pool := workers.NewWorkerPool(workers.DefaultWorkers)
	negotiations := services.NewNegotiationService(
		sessions, drivers, chiefs, sponsors, relationships,
		snapshots, eventManager, pool, cfg.LeagueMaxContractYears, log,
	)
	scouts := scouting.NewService(snapshots, chiefs, log)

	// Cloud backups stay off unless bucket credentials are configured
	var backups *reliability.BackupService
	if cfg.Backup.Configured() {
		s3Client, err := reliability.NewS3Client(cfg.Backup, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 client")
		}
		backups = reliability.NewBackupService(s3Client, db, eventManager, cfg.DataDir, cfg.Backup.Prefix, log)
		log.Info().Str("bucket", cfg.Backup.Bucket).Msg("Cloud backups enabled")
	}

	// Initialize scheduler
	sched := scheduler.New(eventManager, log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	if err := registerJobs(sched, cfg, db, negotiations, snapshots, marketValues, eventManager, backups, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Log:          log,
		DB:           db,
		Config:       cfg,
		Port:         cfg.Port,
		DevMode:      cfg.DevMode,
		EventBus:     eventBus,
		EventManager: eventManager,
		Negotiations: negotiations,
		Sessions:     sessions,
		Scouting:     scouts,
		Snapshots:    snapshots,
		Backups:      backupsOrNil(backups),
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// registerJobs wires the background jobs that keep the league moving
// when nobody is watching.
func registerJobs(
	sched *scheduler.Scheduler,
	cfg *config.Config,
	db *database.DB,
	negotiations *services.NegotiationService,
	snapshots *market.Builder,
	marketValues *roster.MarketValueRepository,
	eventManager *events.Manager,
	backups *reliability.BackupService,
	log zerolog.Logger,
) error {
	// Counterparties answer pending offers every 15 minutes
	if err := sched.AddJob("0 */15 * * * *", scheduler.NewResponseDispatchJob(negotiations, log)); err != nil {
		return err
	}

	// Expired negotiations close on the hour
	if err := sched.AddJob("@hourly", scheduler.NewDeadlineSweepJob(negotiations, log)); err != nil {
		return err
	}

	// Market values refresh nightly at 3 AM
	revaluation := scheduler.NewMarketRevaluationJob(snapshots, marketValues, eventManager, cfg.CurrentSeason, log)
	if err := sched.AddJob("0 0 3 * * *", revaluation); err != nil {
		return err
	}

	// Database upkeep nightly at 4 AM, vacuum on Sunday mornings
	if err := sched.AddJob("0 0 4 * * *", scheduler.NewDatabaseMaintenanceJob(db, log)); err != nil {
		return err
	}
	if err := sched.AddJob("0 0 5 * * 0", scheduler.NewVacuumJob(db, log)); err != nil {
		return err
	}

	// Cloud backup nightly at 4:30 AM when configured
	if backups != nil {
		if err := sched.AddJob("0 30 4 * * *", scheduler.NewBackupJob(backups, cfg.Backup.RetentionDays, log)); err != nil {
			return err
		}
	}

	return nil
}

// backupsOrNil keeps the server from seeing a typed nil interface.
func backupsOrNil(backups *reliability.BackupService) server.BackupService {
	if backups == nil {
		return nil
	}
	return backups
}
