package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diirlabs/station-service/internal/api"
	"github.com/diirlabs/station-service/internal/app"
	"github.com/diirlabs/station-service/internal/config"
	"github.com/diirlabs/station-service/internal/contracts"
	"github.com/diirlabs/station-service/internal/eth"
	"github.com/diirlabs/station-service/internal/keyvault"
	"github.com/diirlabs/station-service/internal/logger"
	"github.com/diirlabs/station-service/internal/middleware"
	"github.com/diirlabs/station-service/internal/storage"
	"github.com/diirlabs/station-service/pkg/types"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	store, err := storage.New(cfg.PostgresDSN)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	slog.Info("connected to database")

	// Initialize key vault
	provider, err := keyvault.NewProvider(&keyvault.ProviderConfig{
		Provider:        cfg.KMSProvider,
		LocalMasterKey:  cfg.KMSLocalMasterKey,
		AWSKMSKeyID:     cfg.KMSAWSKeyID,
		AWSKMSRegion:    cfg.KMSAWSRegion,
		VaultAddress:    cfg.KMSVaultAddress,
		VaultToken:      cfg.KMSVaultToken,
		VaultTransitKey: cfg.KMSVaultTransitKey,
	})
	if err != nil {
		slog.Error("failed to initialize key vault", "error", err)
		os.Exit(1)
	}
	vault := keyvault.NewAdapter(provider)

	slog.Info("initialized key vault", "provider", vault.Provider())

	// Connect to the chain RPC endpoint
	chainClient, err := eth.NewClient(cfg.RPCURL)
	if err != nil {
		slog.Error("failed to connect to chain RPC", "error", err, "url", cfg.RPCURL)
		os.Exit(1)
	}
	defer chainClient.Close()

	slog.Info("connected to chain", "chain_id", chainClient.ChainID().String())

	// Resolve contract addresses for the environment
	registry, err := contracts.NewRegistry(cfg.Environment, chainClient)
	if err != nil {
		slog.Error("failed to initialize contract registry", "error", err)
		os.Exit(1)
	}

	// Initialize application services
	walletRepo := storage.NewWalletRepository(store)
	statusRepo := storage.NewStatusRepository(store)

	walletService := app.NewWalletService(cfg.Environment, cfg.DevWalletSeed, walletRepo, vault, chainClient)
	stationService, err := app.NewStationService(cfg.Environment, walletRepo, vault, registry, cfg.AdminKeyHex, cfg.AdminKeyCiphertext)
	if err != nil {
		slog.Error("failed to initialize station service", "error", err)
		os.Exit(1)
	}
	statusService := app.NewStatusService(statusRepo)

	// Initialize middleware
	devPassthrough := cfg.Environment == types.EnvDevelopment
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, devPassthrough)
	rateLimiter := middleware.NewRateLimiter(10, 30, true)

	// Initialize API server
	server := api.NewServer(cfg.Port, walletService, stationService, statusService, authMiddleware, rateLimiter)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for either server error or shutdown signal
	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		slog.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("error during shutdown", "error", err)
		}

		slog.Info("server stopped")
	}
}
