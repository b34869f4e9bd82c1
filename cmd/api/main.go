package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"annograph/application/ports"
	"annograph/application/services"
	domaincfg "annograph/domain/config"
	"annograph/infrastructure/config"
	"annograph/infrastructure/persistence/memory"
	"annograph/infrastructure/remote"
	"annograph/interfaces/http/rest"
	"annograph/interfaces/http/rest/handlers"
	"annograph/pkg/auth"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Wire dependencies
	repo := memory.NewPassageRepository()

	var source ports.PassageSource
	var sink ports.PassageSink
	if cfg.Remote.URL != "" {
		client, err := remote.NewClient(cfg.Remote, logger)
		if err != nil {
			logger.Fatal("Failed to configure remote client", zap.Error(err))
		}
		source, sink = client, client
	}

	domainCfg := domaincfg.LoadDomainConfig(cfg.Environment)
	if err := domainCfg.Validate(); err != nil {
		logger.Fatal("Invalid domain configuration", zap.Error(err))
	}

	service := services.NewPassageService(repo, source, sink, logger,
		services.WithDomainConfig(domainCfg))
	passageHandler := handlers.NewPassageHandler(service, logger)

	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		validator, err = auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			logger.Fatal("Failed to configure token validation", zap.Error(err))
		}
	} else if cfg.IsProduction() {
		logger.Fatal("Refusing to start in production without authentication")
	}

	router := rest.NewRouter(passageHandler, validator, cfg.EnableCORS, logger)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
