package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payulot/config"
	httpHandler "payulot/internal/adapter/http/handler"
	pgStorage "payulot/internal/adapter/storage/postgres"
	redisStorage "payulot/internal/adapter/storage/redis"
	"payulot/internal/core/ports"
	"payulot/internal/service"
	"payulot/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Boop wallet platform")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	transferRepo := pgStorage.NewTransferRepo(pool)
	passportRepo := pgStorage.NewPassportRepo(pool)
	bankRepo := pgStorage.NewBankAccountRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	actionRepo := pgStorage.NewAdminActionRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT)
	auditSvc := service.NewAuditService(actionRepo, log)
	ledgerSvc := service.NewLedgerService(walletRepo, txRepo, transactor, log)

	// Initialize business services
	treasurySvc := service.NewTreasuryService(
		ledgerSvc,
		walletRepo,
		userRepo,
		txRepo,
		transactor,
		auditSvc,
		cfg.Treasury.AllowInactiveSource,
		log,
	)
	chargeSvc := service.NewChargeService(
		ledgerSvc,
		walletRepo,
		passportRepo,
		idempotencyRepo,
		idempotencyCache,
		transactor,
		log,
	)
	payoutSvc := service.NewPayoutService(
		transferRepo,
		bankRepo,
		walletRepo,
		ledgerSvc,
		transactor,
		auditSvc,
		log,
	)
	passportSvc := service.NewPassportService(passportRepo, walletRepo, userRepo, hashSvc, auditSvc, log)
	reportingSvc := service.NewReportingService(txRepo)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		TreasurySvc:    treasurySvc,
		ChargeSvc:      chargeSvc,
		PayoutSvc:      payoutSvc,
		PassportSvc:    passportSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		BankRepo:       bankRepo,
		RateLimitStore: rateLimitStore,
		AuditSvc:       auditSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain in-flight audit writes before the pool closes.
	auditSvc.Wait()

	log.Info().Msg("Server exited")
}
