package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"nft-storefront/internal/client"
	"nft-storefront/internal/config"
	"nft-storefront/internal/server"
	"nft-storefront/internal/service"
	"nft-storefront/internal/session"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	cfg.Normalize()

	logger := newLogger(&cfg.Log)

	store, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		logger.Error("open session store", "error", err)
		os.Exit(1)
	}

	marketClient := client.NewMarketClient(&cfg.Backend)
	paymentClient := client.NewPaymentClient(&cfg.Backend)
	authClient := client.NewAuthClient(&cfg.Backend)

	catalog := service.NewCatalog(marketClient, &cfg.Catalog, logger)
	auth := service.NewAuth(authClient, store, logger)
	watcher := service.NewStatusWatcher(paymentClient, &cfg.Payment)
	purchases := service.NewPurchases(marketClient, paymentClient, catalog, auth, watcher, cfg.Paypal)

	// Warm the catalog; sample data serves if the backend is down.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	catalog.Refresh(warmCtx)
	warmCancel()

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(catalog, purchases, auth, cfg.Google)

	logger.Info("starting HTTP server", "addr", serverAddr, "env", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	catalog.Close()
	if err := srv.Shutdown(); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		os.Exit(1)
	}
}

func newLogger(logCfg *config.Log) *slog.Logger {
	level := slog.LevelInfo
	switch logCfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if logCfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
