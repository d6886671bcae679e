package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"rentalhub-backend/internal/config"
	"rentalhub-backend/internal/jobs"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository/postgres"
	"rentalhub-backend/internal/scheduler"
	"rentalhub-backend/internal/service"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cronjob",
		Short:        "Scheduled maintenance jobs for the rental backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the cron scheduler until interrupted",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:       "run-once [job]",
		Short:     "Run a single job and exit",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"mark-late-returns", "all-nightly"},
		RunE:      runOnce,
	})
	return root
}

// setup loads configuration and builds the job runner. The returned cleanup closes the
// notification dispatcher and the database.
func setup() (*config.Config, *jobs.JobRunner, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalHub Cronjob Runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	}
	notifier := service.NewNotificationDispatcher(store.NotificationRepository, store.UserRepository, emailSvc, cfg.NotificationTimeout())

	// Late-return marking never touches fees, files or inventory.
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.StatusHistoryRepository,
		store.ProductRepository,
		store.AddressRepository,
		store.PaymentTransactionRepository,
		service.NewInventoryAdjuster(store.ProductRepository),
		nil,
		nil,
		notifier,
		cfg.Pricing.Currency,
	)

	runner := jobs.NewJobRunner(store.RentalRepository, rentalSvc, cfg.Scheduler)
	cleanup := func() {
		notifier.Close()
		db.Close()
	}
	return cfg, runner, cleanup, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	_, runner, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	cronScheduler, err := scheduler.NewScheduler(runner)
	if err != nil {
		return err
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
	return nil
}

var onceJobs = map[string]func(*jobs.JobRunner){
	"mark-late-returns": (*jobs.JobRunner).MarkLateReturns,
	"all-nightly":       (*jobs.JobRunner).RunAllNightlyJobs,
}

func runOnce(cmd *cobra.Command, args []string) error {
	job := args[0]
	run, ok := onceJobs[job]
	if !ok {
		return fmt.Errorf("unknown job %q, available: %v", job, cmd.ValidArgs)
	}

	_, runner, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Running job once", "job", job)
	run(runner)
	logger.Info("Job execution completed", "job", job)
	return nil
}
