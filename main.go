package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/yakguide/config"
	"github.com/giygas/yakguide/gateway"
	"github.com/giygas/yakguide/handlers"
	"github.com/giygas/yakguide/health"
	"github.com/giygas/yakguide/logging"
	"github.com/giygas/yakguide/lookup"
	"github.com/giygas/yakguide/registry"
	"github.com/giygas/yakguide/scheduler"
	"github.com/giygas/yakguide/server"
	"github.com/giygas/yakguide/validation"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	loggingService := logging.InitLogger(logging.Options{
		LogDir:         cfg.LogDir,
		Level:          cfg.LogLevel,
		RetentionDays:  cfg.LogRetentionDays,
		MaxLogFileSize: cfg.MaxLogFileSize,
	})
	defer loggingService.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env,
		"drug_api", cfg.DrugAPIBaseURL,
		"places_api", cfg.PlacesAPIBaseURL,
		"drug_key_set", cfg.DrugAPIKey != "",
		"places_key_set", cfg.PlacesAPIKey != "")

	if cfg.DrugAPIKey == "" || cfg.PlacesAPIKey == "" {
		logging.Warn("Provider API keys missing, lookups will be rejected upstream")
	}

	validator := validation.NewInputValidator()

	drugClient := gateway.NewClient(lookup.ProviderMedication, cfg.UpstreamTimeout, cfg.MaxUpstreamBody)
	placesClient := gateway.NewClient(lookup.ProviderPlaces, cfg.UpstreamTimeout, cfg.MaxUpstreamBody)

	service := lookup.NewService(drugClient, placesClient, validator, lookup.Endpoints{
		DrugURL:   cfg.DrugAPIBaseURL,
		DrugKey:   cfg.DrugAPIKey,
		PlacesURL: cfg.PlacesAPIBaseURL,
		PlacesKey: cfg.PlacesAPIKey,
	})

	addresses := registry.NewAddressRegistry(validator)
	tracker := health.NewProbeTracker()
	healthChecker := health.NewHealthChecker(tracker, addresses, cfg.ProbeInterval)

	probeScheduler := scheduler.NewScheduler(service.Probes(), tracker, cfg.ProbeInterval, cfg.UpstreamTimeout)
	if err := probeScheduler.Start(); err != nil {
		logging.Error("Failed to start provider probes", "error", err)
		os.Exit(1)
	}
	defer probeScheduler.Stop()

	handler := handlers.NewHTTPHandler(service, addresses, healthChecker)
	srv := server.NewServer(cfg, handler)

	if cfg.Env == config.EnvDevelopment {
		startProfilingServer()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		logging.Info("Received signal", "signal", sig.String())
	case err := <-serverErr:
		logging.Error("Server failed to start", "error", err)
		probeScheduler.Stop()
		loggingService.Close()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}

// startProfilingServer exposes pprof on localhost in development only
func startProfilingServer() {
	go func() {
		logging.Info("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			logging.Error("Profiling server failed", "error", err)
		}
	}()
}
