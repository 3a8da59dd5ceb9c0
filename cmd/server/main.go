package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"integration-hub/internal/domain/repository"
	"integration-hub/internal/infrastructure/config"
	"integration-hub/internal/infrastructure/oauth"
	"integration-hub/internal/infrastructure/persistence"
	"integration-hub/internal/infrastructure/router"
	"integration-hub/internal/infrastructure/tabular"
	"integration-hub/internal/interface/handler"
	"integration-hub/internal/interface/relay"
	relayRepo "integration-hub/internal/interface/repository"
	"integration-hub/internal/interface/sheets"
	"integration-hub/internal/usecase"
	"integration-hub/pkg/logger"
	"integration-hub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Integration Hub", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the booking table
	store, err := tabular.Open(cfg.BookingsCSVPath)
	if err != nil {
		log.Fatal("Failed to load bookings", "path", cfg.BookingsCSVPath, "error", err)
	}
	log.Info("Bookings loaded", "path", cfg.BookingsCSVPath, "records", store.Len())

	m := metrics.NewMetrics("integration_hub", prometheus.DefaultRegisterer)

	// Set up the relay audit log
	var (
		auditRepo   repository.RelayLogRepository
		mongoClient *mongo.Client
		gormDB      *gorm.DB
	)
	switch cfg.AuditBackend {
	case config.AuditMongo:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		auditRepo = relayRepo.NewMongoRelayLogRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	case config.AuditPostgres:
		log.Info("Connecting to PostgreSQL")
		gormDB, err = persistence.NewPostgresDB(ctx, cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		if auditRepo, err = relayRepo.NewGormRelayLogRepository(gormDB); err != nil {
			log.Fatal("Failed to migrate relay log table", "error", err)
		}
	default:
		auditRepo = relayRepo.NewNoopRelayLogRepository()
	}

	// One throttled client per upstream provider
	opts := relay.Options{
		RequestsPerSecond: cfg.OutboundRPS,
		Burst:             cfg.OutboundBurst,
		Timeout:           cfg.OutboundTimeout,
	}
	newClient := func(provider string) *relay.Client {
		return relay.NewClient(provider, opts, m, auditRepo, log)
	}

	// Set up repositories
	cleverTapRepository := relayRepo.NewCleverTapRepository(newClient("clevertap"), log,
		cfg.CleverTapBaseURL, cfg.CleverTapAccountID, cfg.CleverTapPasscode)
	facebookRepository := relayRepo.NewFacebookRepository(newClient("facebook"), log,
		cfg.FacebookGraphURL, cfg.FacebookGraphVersion, cfg.FacebookToken, cfg.FacebookTestEventCode)
	lineRepository := relayRepo.NewLineRepository(newClient("line"), log,
		cfg.LineAPIURL, cfg.LineChannelAccessToken)
	geminiRepository := relayRepo.NewGeminiRepository(newClient("gemini"), log,
		cfg.GeminiAPIURL, cfg.GeminiModel, cfg.GeminiAPIKey)

	// Set up Google Sheets
	var sheetsRepository repository.SheetsRepository
	tokenSource, err := oauth.SheetsTokenSource(ctx, cfg.GoogleSheetsCredentials,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken, log)
	switch {
	case errors.Is(err, oauth.ErrNoCredentials):
		log.Warn("Google Sheets credentials not configured, sheet endpoints are disabled")
	case err != nil:
		log.Fatal("Failed to load Google Sheets credentials", "error", err)
	default:
		sheetsRepository, err = sheets.NewSheetsService(ctx, newClient("google_sheets"), log, option.WithTokenSource(tokenSource))
		if err != nil {
			log.Fatal("Failed to create Sheets service", "error", err)
		}
	}

	// Set up LINE event routing
	eventRouter := router.NewEventRouter(log)
	eventRouter.Register(usecase.NewTextMessageHandler(lineRepository, geminiRepository, log))
	eventRouter.Register(usecase.NewImageMessageHandler(lineRepository, log))
	eventRouter.Register(usecase.NewBeaconHandler(lineRepository))
	orchestrator := usecase.NewWebhookOrchestrator(eventRouter, log)

	bookingService := usecase.NewBookingService(store, m, log)

	// Set up HTTP server
	mux := handler.NewRouter(m, prometheus.DefaultGatherer, log,
		handler.NewBookingHandler(bookingService, log),
		handler.NewCleverTapHandler(cleverTapRepository, log),
		handler.NewFacebookHandler(facebookRepository, log),
		handler.NewSheetsHandler(sheetsRepository, log),
		handler.NewLineHandler(lineRepository, orchestrator, cfg.LineChannelSecret, log),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
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

	cancel()

	if cfg.BookingsPersistOnShutdown {
		if err := store.Save(cfg.BookingsCSVPath); err != nil {
			log.Error("Failed to save bookings", "path", cfg.BookingsCSVPath, "error", err)
		} else {
			log.Info("Bookings saved", "path", cfg.BookingsCSVPath, "records", store.Len())
		}
	}

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}
	if gormDB != nil {
		if err := persistence.ClosePostgresDB(gormDB); err != nil {
			log.Error("PostgreSQL close error", "error", err)
		}
	}

	log.Info("Integration Hub stopped")
}
