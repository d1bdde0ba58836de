/*
Package main is the entry point for the ExNebula server.

It is responsible for loading configuration, initializing the global logging
system, connecting to the database, starting the chat hub, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM) to ensure a
smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"exnebula/internal/app/chat"
	"exnebula/internal/app/storage"
	"exnebula/internal/app/store"
	"exnebula/internal/configs"
	"exnebula/internal/handler"
	"exnebula/internal/pkg/auth/token"
	"exnebula/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("rate_limit_max", cfg.RateLimitMax).
		Dur("rate_limit_window", cfg.RateLimitWindow).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		logx.Fatal(err, "Failed to initialize token codec")
	}

	pool, err := store.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	assets, err := storage.NewAssetService(storage.ServiceConfig{
		BucketName:      cfg.S3BucketName,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize asset storage")
	}

	// Initialize the chat hub
	hubOpts := chat.DefaultOptions()
	hubOpts.MaxMessageBytes = cfg.MaxMessageBytes
	hubOpts.PublishRate = rate.Limit(cfg.PublishPerSec)
	hubOpts.PublishBurst = cfg.PublishBurst
	hub := chat.NewHub(hubOpts)

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Hub:    hub,
		Config: cfg,
		Store:  store.New(pool),
		Assets: assets,
		Codec:  codec,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("ExNebula Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped")
}
