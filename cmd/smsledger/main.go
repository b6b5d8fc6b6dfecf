package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smsledger/internal/api"
	"smsledger/internal/api/handlers"
	"smsledger/internal/repository"
	"smsledger/internal/service"
	"smsledger/internal/worker"
	"smsledger/pkg/auth"
	"smsledger/pkg/config"
	"smsledger/pkg/logger"
	"smsledger/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting smsledger service")

	if cfg.Auth.PairingSecret == "" {
		appLogger.Fatal("AUTH_PAIRING_SECRET must be set")
	}

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.InitSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize repositories
	txRepo := repository.NewTransactionRepository(db, appLogger)
	summaryRepo := repository.NewSummaryRepository(db, appLogger)
	archiveRepo := repository.NewArchiveRepository(db, appLogger)
	ruleRepo := repository.NewRuleRepository(db, appLogger)
	patternRepo := repository.NewPatternRepository(db, appLogger)
	recurringRepo := repository.NewRecurringRepository(db, appLogger)
	budgetRepo := repository.NewBudgetRepository(db, appLogger)
	notificationRepo := repository.NewNotificationRepository(db, appLogger)
	prefRepo := repository.NewPreferenceRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExp)

	// Initialize services
	parser := service.NewSMSParser(appLogger)
	ingestService := service.NewIngestService(txRepo, summaryRepo, archiveRepo, patternRepo, ruleRepo, parser, appLogger)
	recurringService := service.NewRecurringService(recurringRepo, txRepo, notificationRepo, appLogger)
	budgetService := service.NewBudgetService(budgetRepo, txRepo, notificationRepo, prefRepo, appLogger)
	retentionService := service.NewRetentionService(txRepo, archiveRepo, cfg.Retention.TrashMaxAge, cfg.Retention.ArchiveMaxAge, appLogger)

	// Start the ingestion queue workers
	queueCtx, cancelQueue := context.WithCancel(ctx)
	defer cancelQueue()

	queue := worker.NewQueue(cfg.Ingest.QueueSize, appLogger)
	err = queue.Start(queueCtx, cfg.Ingest.WorkerCount, func(ctx context.Context, batch worker.Batch) error {
		_, err := ingestService.Ingest(ctx, batch.Messages, batch.Mode)
		return err
	})
	if err != nil {
		appLogger.Fatal("Failed to start ingestion workers", zap.Error(err))
	}

	// Initialize handlers
	pairHandler := handlers.NewPairHandler(jwtManager, cfg.Auth.PairingSecret, appLogger)
	ingestHandler := handlers.NewIngestHandler(ingestService, queue, appLogger)
	txHandler := handlers.NewTransactionHandler(txRepo, summaryRepo, archiveRepo, appLogger)
	ruleHandler := handlers.NewRuleHandler(ruleRepo, patternRepo, appLogger)
	budgetHandler := handlers.NewBudgetHandler(budgetRepo, recurringRepo, notificationRepo, prefRepo, appLogger)
	jobsHandler := handlers.NewJobsHandler(recurringService, budgetService, retentionService, appLogger)

	// Setup router
	app := api.SetupRouter(pairHandler, ingestHandler, txHandler, ruleHandler, budgetHandler, jobsHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}

	// Drain in-flight ingest batches before closing the pool
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := queue.Stop(stopCtx); err != nil {
		appLogger.Error("Queue shutdown error", zap.Error(err))
	}
}
