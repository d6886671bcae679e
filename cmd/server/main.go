package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcapi "rentalhub-backend/internal/api/grpc"
	httpapi "rentalhub-backend/internal/api/http"
	"rentalhub-backend/internal/config"
	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
	"rentalhub-backend/internal/repository/postgres"
	"rentalhub-backend/internal/security"
	"rentalhub-backend/internal/service"
	"rentalhub-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentalHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_port", cfg.Server.GRPCPort)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTokenExpiry())

	// Initialize Storage
	files, err := storage.New(storage.Config{
		Type:      cfg.Storage.Type,
		LocalDir:  cfg.Storage.UploadDir,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	} else {
		logger.Warn("SendGrid API key not set, notifications are in-app only")
	}

	// Initialize Services
	notifier := service.NewNotificationDispatcher(store.NotificationRepository, store.UserRepository, emailSvc, cfg.NotificationTimeout())
	defer notifier.Close()

	var settingRepo repository.SettingRepository
	if cfg.Pricing.ReadSettingsFromDB {
		settingRepo = store.SettingRepository
	}
	fees := service.NewFeeSettingsProvider(settingRepo, domain.FeeSettings{
		DeliveryFee:      cfg.Pricing.DeliveryFee(),
		RenterFeePercent: cfg.Pricing.RenterFeePercentage(),
		OwnerFeePercent:  cfg.Pricing.OwnerFeePercentage(),
	})

	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.StatusHistoryRepository,
		store.ProductRepository,
		store.AddressRepository,
		store.PaymentTransactionRepository,
		service.NewInventoryAdjuster(store.ProductRepository),
		fees,
		files,
		notifier,
		cfg.Pricing.Currency,
	)
	dashboardSvc := service.NewDashboardService(store.RentalRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	deps := httpapi.Dependencies{
		Rentals:        rentalSvc,
		Dashboard:      dashboardSvc,
		Notifications:  noteSvc,
		TokenManager:   tokenManager,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	}
	if local, ok := files.(*storage.LocalStorage); ok {
		deps.Files = local
	}
	httpServer := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: httpapi.NewRouter(deps),
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Set up gRPC server
	grpcServer, healthServer := grpcapi.NewServer(tokenManager)
	if cfg.Server.GRPCPort > 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		go func() {
			logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
			if err := grpcServer.Serve(lis); err != nil {
				serveErr <- err
			}
		}()
	}

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Received signal", "signal", sig.String())
	case err := <-serveErr:
		logger.Error("Server error", "error", err)
	}

	// Graceful shutdown
	logger.Info("Shutting down servers...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped. Goodbye!")
}
