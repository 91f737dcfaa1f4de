package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/punchamoorthee/gashawk/internal/api"
	"github.com/punchamoorthee/gashawk/internal/config"
	"github.com/punchamoorthee/gashawk/internal/explorer"
	"github.com/punchamoorthee/gashawk/internal/frame"
	"github.com/punchamoorthee/gashawk/internal/logging"
	"github.com/punchamoorthee/gashawk/internal/oracle"
	"github.com/punchamoorthee/gashawk/internal/resolver"
	"github.com/punchamoorthee/gashawk/internal/store"
)

const stateTTL = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, logCloser := logging.Setup(logging.Options{
		Service:    "gashawk-frame",
		Env:        cfg.Env,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Layers
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	names := resolver.NewClient(cfg.ENSURL, httpClient, cfg.UpstreamTimeout)
	history := explorer.NewClient(cfg.EtherscanURL, cfg.EtherscanAPIKey, httpClient, cfg.UpstreamTimeout)
	prices := oracle.NewClient(cfg.CoinGeckoURL, httpClient, cfg.UpstreamTimeout)
	machine := frame.NewMachine(names, history, prices, logger)

	var reports api.ReportRecorder
	if cfg.DBSource != "" {
		reportLog, err := store.NewReportLog(ctx, cfg.DBSource)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer reportLog.Close()
		reports = reportLog
		logger.Info("report log enabled")
	}

	signer := api.NewStateSigner(cfg.FrameSecret, stateTTL)
	handler := api.NewHandler(machine, signer, reports, cfg.PublicURL, logger)
	limiter := api.NewRateLimiter(api.RateLimit{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		Burst:             cfg.RateLimitBurst,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(handler, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server starting", "port", cfg.Port, "public_url", cfg.PublicURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
