package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "fleet-rental-backend/internal/api/http"
	"fleet-rental-backend/internal/config"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/money"
	"fleet-rental-backend/internal/repository/postgres"
	"fleet-rental-backend/internal/security"
	"fleet-rental-backend/internal/service"
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
	logger.Info("Starting Fleet Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid)

	settings := money.Settings{
		TaxRatePercent:        cfg.Billing.TaxRatePercent,
		TaxEnabled:            cfg.Billing.TaxEnabled,
		ExchangeRate:          cfg.Billing.ExchangeRate,
		CurrencyCode:          cfg.Billing.CurrencyCode,
		SecondaryCurrencyCode: cfg.Billing.SecondaryCurrencyCode,
	}

	// Initialize Services
	authSvc := service.NewAuthService(store, tokenManager)
	vehicleSvc := service.NewVehicleService(store)
	customerSvc := service.NewCustomerService(store)
	reservationSvc := service.NewReservationService(store, emailSvc, settings)
	rentalSvc := service.NewRentalService(store, emailSvc, settings)
	commissionSvc := service.NewCommissionService(store)
	reportSvc := service.NewReportService(store)
	expenseSvc := service.NewExpenseService(store)
	noteSvc := service.NewNotificationService(store)

	// Initialize HTTP handlers
	authHandler := httpapi.NewAuthHandler(authSvc)
	vehicleHandler := httpapi.NewVehicleHandler(vehicleSvc)
	customerHandler := httpapi.NewCustomerHandler(customerSvc)
	reservationHandler := httpapi.NewReservationHandler(reservationSvc, settings)
	rentalHandler := httpapi.NewRentalHandler(rentalSvc, settings)
	commissionHandler := httpapi.NewCommissionHandler(commissionSvc)
	reportHandler := httpapi.NewReportHandler(reportSvc)
	expenseHandler := httpapi.NewExpenseHandler(expenseSvc)
	notificationHandler := httpapi.NewNotificationHandler(noteSvc)

	authMiddleware := httpapi.NewAuthMiddleware(tokenManager, store.Repos().Users)

	router := httpapi.NewRouter(
		authHandler,
		vehicleHandler,
		customerHandler,
		reservationHandler,
		rentalHandler,
		commissionHandler,
		reportHandler,
		expenseHandler,
		notificationHandler,
		authMiddleware,
		db,
	)

	corsHandler := httpapi.NewCORS(cfg)(router)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
