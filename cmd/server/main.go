// Package main is the entry point for the BPDM API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bpdm/internal/domain/auth"
	"bpdm/internal/domain/partners/build"
	"bpdm/internal/domain/partners/metadata"
	"bpdm/internal/domain/partners/query"
	v1 "bpdm/internal/infrastructure/http/v1"
	"bpdm/internal/infrastructure/storage/postgres"
	"bpdm/internal/infrastructure/storage/postgres/partner_repo"
	"bpdm/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting bpdm server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	legalEntityRepo := partner_repo.NewLegalEntityRepo(txManager)
	siteRepo := partner_repo.NewSiteRepo(txManager)
	addressRepo := partner_repo.NewAddressRepo(txManager)
	metadataRepo := partner_repo.NewMetadataRepo(txManager)

	changelogRepo, err := partner_repo.NewChangelogRepo(txManager)
	if err != nil {
		log.Fatalw("failed to create changelog repository", "error", err)
	}

	// --- Services ---
	issuer := postgres.NewBPNIssuer(txManager)
	metadataService := metadata.NewService(metadataRepo)
	buildService := build.NewService(
		legalEntityRepo,
		siteRepo,
		addressRepo,
		changelogRepo,
		metadataService,
		issuer,
		txManager,
	)
	queryService := query.NewService(legalEntityRepo, siteRepo, addressRepo, changelogRepo)

	// --- JWT ---
	authDisabled := getEnv("AUTH_DISABLED", "false") == "true"
	var jwtService *auth.JWTService
	if !authDisabled {
		jwtService = auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	} else {
		log.Warn("authentication disabled")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthDisabled:    authDisabled,
		BuildService:    buildService,
		QueryService:    queryService,
		MetadataService: metadataService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
