// Package main is the entry point for the gudang API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"gudang/internal/config"
	"gudang/internal/domain/audit"
	"gudang/internal/domain/auth"
	"gudang/internal/domain/policy"
	"gudang/internal/infrastructure/cache"
	v1 "gudang/internal/infrastructure/http/v1"
	"gudang/internal/infrastructure/numerator"
	"gudang/internal/infrastructure/storage/postgres"
	"gudang/internal/infrastructure/storage/postgres/auth_repo"
	"gudang/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting gudang server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Redis (optional) ---
	var redisClient *redis.Client
	var productCache *cache.ProductCache
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()

		productCache = cache.NewProductCache(redisClient, 1024, 5*time.Minute)
	} else {
		log.Info("redis not configured, running without product cache")
	}

	// --- Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Audit ---
	auditRepo, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}
	auditService := audit.NewService(auditRepo)

	// --- Numerator ---
	numeratorService := numerator.New(pool)

	// --- Approval policy (optional) ---
	var policyEngine *policy.Engine
	if cfg.Policy.RulesPath != "" {
		rules, err := policy.LoadRulesFile(cfg.Policy.RulesPath)
		if err != nil {
			log.Fatalw("failed to load policy rules", "error", err, "path", cfg.Policy.RulesPath)
		}
		policyEngine, err = policy.NewEngine(rules)
		if err != nil {
			log.Fatalw("failed to compile policy rules", "error", err)
		}
		log.Infow("approval policy loaded", "rules", len(rules))
	}

	// --- Router ---
	gin.SetMode(ginMode(cfg.Server.GinMode))
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		TxManager:    txManager,
		Logger:       log,
		JWTValidator: jwtService,
		AuthService:  authService,
		AuditService: auditService,
		Numerator:    numeratorService,
		PolicyEngine: policyEngine,
		Redis:        redisClient,
		ProductCache: productCache,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func ginMode(mode string) string {
	switch mode {
	case gin.DebugMode, gin.TestMode:
		return mode
	default:
		return gin.ReleaseMode
	}
}
