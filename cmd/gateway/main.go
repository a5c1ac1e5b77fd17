package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "equiprent/internal/api/http"
	"equiprent/internal/config"
	"equiprent/internal/jobs"
	"equiprent/internal/logger"
	"equiprent/internal/notify"
	"equiprent/internal/repository/postgres"
	"equiprent/internal/scheduler"
	"equiprent/internal/security"
	"equiprent/internal/service"
	"equiprent/internal/storage"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("scheduler", true, "Run the cron jobs inside the gateway process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting equipment rental gateway...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		logger.Error("Failed to apply schema", "error", err)
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())

	// Initialize Storage
	logger.Info("Using local object storage", "upload_dir", cfg.Storage.UploadDir)
	objects, err := storage.NewLocalStore(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	notifier := notify.New(cfg.Notify.SendGridAPIKey, cfg.Notify.FromEmail, cfg.Notify.FromName)
	if cfg.Notify.SendGridAPIKey == "" {
		logger.Info("Renter notifications disabled (no SendGrid key)")
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.IdentityRepository, store.RevokedTokenRepository, tokenManager)
	accountSvc := service.NewAccountService(store.RoleRepository, store.ProfileRepository)
	equipmentSvc := service.NewEquipmentService(store.EquipmentRepository, store.RoleRepository)
	bookingSvc := service.NewBookingService(store.BookingRepository, store.EquipmentRepository, store.RoleRepository, notifier)
	imageSvc := service.NewImageService(objects, cfg.Storage.AllowedTypes, cfg.Storage.MaxFileSize<<20)

	router := httpapi.NewRouter(httpapi.Deps{
		Auth:           authSvc,
		Accounts:       accountSvc,
		Equipment:      equipmentSvc,
		Bookings:       bookingSvc,
		Images:         imageSvc,
		APIKey:         cfg.Gateway.APIKey,
		ServiceKey:     cfg.Gateway.ServiceKey,
		AllowedOrigins: cfg.Server.CORSOrigins,
	})

	if *withScheduler {
		jobRunner := jobs.NewJobRunner(&jobs.Services{
			Booking:      bookingSvc,
			RevokedToken: store.RevokedTokenRepository,
		}, cfg)
		cronScheduler, err := scheduler.NewScheduler(jobRunner)
		if err != nil {
			logger.Error("Failed to create scheduler", "error", err)
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		cronScheduler.Start()
		defer cronScheduler.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
	logger.Info("Gateway stopped")
}
