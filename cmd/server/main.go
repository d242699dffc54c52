package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightdesk-service/internal/infrastructure/auth"
	"flightdesk-service/internal/infrastructure/config"
	"flightdesk-service/internal/infrastructure/persistence"
	"flightdesk-service/internal/interface/httpapi"
	mongoRepo "flightdesk-service/internal/interface/repository"
	"flightdesk-service/internal/interface/wshub"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightdesk Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection
	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Fleet and roster reference data lives in PostgreSQL, owned by fleet
	// management
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	m := metrics.NewMetrics("flightdesk")

	// Set up repositories
	flightRepo := mongoRepo.NewMongoFlightRepository(db, log)
	complianceRepo := mongoRepo.NewMongoComplianceRepository(db)
	aircraftRepo := mongoRepo.NewGormAircraftRepository(gormDB)
	pilotRepo := mongoRepo.NewGormPilotRepository(gormDB)

	// Set up the scheduling core
	deriver := usecase.NewDeriver(cfg.TurnaroundMinutes)
	validator := usecase.NewValidator(complianceRepo, m, log)
	reconciler := usecase.NewSyncReconciler(flightRepo, m, log)
	sessions := usecase.NewSessionManager(flightRepo, reconciler, validator, deriver, m, log, cfg.SessionTTL)

	// Sweep idle editing sessions in a goroutine
	go sessions.StartSweeper(ctx, cfg.SessionSweepPeriod)

	// Set up the live baseline feed
	hub := wshub.NewHub(flightRepo, m, log)
	go hub.Run(ctx)
	if err := hub.WatchBaseline(ctx); err != nil {
		log.Error("Baseline change stream unavailable, live feed disabled", "error", err)
	}

	// Set up HTTP API
	verifier := auth.NewVerifier(cfg.JWTSecret, log)
	handler := httpapi.NewHandler(sessions, validator, flightRepo, aircraftRepo, pilotRepo, log)
	router := httpapi.NewRouter(handler, verifier, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightdesk Service stopped")
}
