package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"growfi-backend/config"
	apidocs "growfi-backend/docs/api"
	httpHandler "growfi-backend/internal/adapter/http/handler"
	pgStorage "growfi-backend/internal/adapter/storage/postgres"
	redisStorage "growfi-backend/internal/adapter/storage/redis"
	"growfi-backend/internal/core/ports"
	"growfi-backend/internal/service"
	"growfi-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("GROWFI_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Caller: cfg.Server.Mode != "release",
	})
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting GrowFi backend")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("jwt.secret is empty, tokens are signed with an empty key (debug only)")
	}

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
		log.Info().Msg("Database schema ready")
	}

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories
	userRepo := pgStorage.NewUserRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	goalRepo := pgStorage.NewGoalRepo(pool)
	expenseRepo := pgStorage.NewExpenseRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis stores
	revocations := redisStorage.NewRevocationStore(rdb)
	var rateLimitStore *redisStorage.RateLimitStore
	if cfg.Server.RateLimit {
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
	}

	// Core services
	hashSvc := service.NewArgon2HashService(service.Argon2Params{
		Memory:  cfg.Security.Argon2Memory,
		Time:    cfg.Security.Argon2Time,
		Threads: cfg.Security.Argon2Threads,
	})
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Business services
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, revocations, log)
	walletSvc := service.NewWalletService(walletRepo, transactor, log)
	goalSvc := service.NewGoalService(goalRepo, log)
	expenseSvc := service.NewExpenseService(expenseRepo, walletRepo, log)
	transferSvc := service.NewTransferService(walletRepo, goalRepo, expenseRepo, transactor, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	openAPI := apidocs.OpenAPI
	if b, err := os.ReadFile(cfg.Server.OpenAPIPath); err == nil {
		openAPI = b
	} else {
		log.Debug().Err(err).Msg("Serving embedded OpenAPI document")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WalletSvc:      walletSvc,
		GoalSvc:        goalSvc,
		ExpenseSvc:     expenseSvc,
		TransferSvc:    transferSvc,
		TokenSvc:       tokenSvc,
		Revocations:    revocations,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
		},
		AuditSvc:     auditSvc,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		OpenAPISpec:  openAPI,
		Logger:       log,
	})

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
