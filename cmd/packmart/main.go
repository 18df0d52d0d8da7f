// Package main is the entry point for the Packmart back-office API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"packmart/internal/cache"
	"packmart/internal/catalog"
	"packmart/internal/config"
	"packmart/internal/database"
	"packmart/internal/handlers"
	"packmart/internal/router"
	"packmart/internal/storage"
	"packmart/internal/store"
)

// devToken is the operator credential used when no API_TOKEN_HASH is
// configured in development mode.
const devToken = "dev-token"

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible response cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	catalogCache := cache.NewCatalogCache(valkeyClient, cache.DefaultCatalogTTL)

	// Connect to S3-compatible object storage (optional — the catalog
	// works without it, asset endpoints respond 503).
	var storageClient *storage.Client
	if cfg.StorageConfigured() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("s3 storage not configured — asset uploads disabled")
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	collectionStore := store.NewCollectionStore(db)

	// Services take the storage client as a deleter only when it exists;
	// a typed nil inside the interface would dodge the nil checks.
	var categories *catalog.Categories
	var collections *catalog.Collections
	var assetStore handlers.AssetStore
	if storageClient != nil {
		categories = catalog.NewCategories(categoryStore, storageClient)
		collections = catalog.NewCollections(collectionStore, storageClient)
		assetStore = storageClient
	} else {
		categories = catalog.NewCategories(categoryStore, nil)
		collections = catalog.NewCollections(collectionStore, nil)
	}

	// Resolve the operator token hash. Development falls back to a
	// well-known token so local tooling can talk to the API.
	tokenHash := cfg.APITokenHash
	if tokenHash == "" {
		if !cfg.IsDev() {
			slog.Error("API_TOKEN_HASH is required outside development")
			os.Exit(1)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(devToken), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("failed to hash dev token", "error", err)
			os.Exit(1)
		}
		tokenHash = string(hash)
		slog.Warn("API_TOKEN_HASH not set — using development token", "token", devToken)
	}

	api := handlers.NewAPI(categories, collections, assetStore, catalogCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, tokenHash)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate multi-file uploads to the asset store (30s per remote
	// call ceiling).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
