package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/config"
	"restaurant-orders/internal/database"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/server"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		mintUID    = flag.Int64("mint-uid", 0, "Mint a token for this user id and exit")
		mintUser   = flag.String("mint-user", "", "Username claim for -mint-uid")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	// Token minting for operational tooling; the token carries the configured
	// lifetime and verifies against the same secret the server uses
	if *mintUID != 0 {
		token, err := auth.MintToken(cfg.Auth.JWTSecret, *mintUID, *mintUser, cfg.Auth.TokenTTL())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error minting token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	log := logger.New("restaurant-orders")
	requestID := logger.GenerateRequestID()

	log.Info("service_started", "Starting restaurant orders API", requestID, map[string]interface{}{
		"port": cfg.HTTP.Port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service_failed", "Service failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      server.NewRouter(cfg, db, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("http_listening", fmt.Sprintf("HTTP server listening on :%d", cfg.HTTP.Port), requestID, nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	return nil
}
