// Portal - local food wastage management: providers, receivers, listings and claims.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foodwaste/portal/internal/api"
	"github.com/foodwaste/portal/internal/bus"
	"github.com/foodwaste/portal/internal/config"
	"github.com/foodwaste/portal/internal/domain"
	"github.com/foodwaste/portal/internal/repository"
	"github.com/foodwaste/portal/internal/worker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Logging))

	slog.Info("starting portal",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	slog.Info("configuration loaded",
		"repository", cfg.Database.Driver,
		"eventbus", cfg.EventBus.Type,
		"log_level", cfg.Logging.Level,
		"tracing", cfg.Tracing.Enabled,
	)

	// Without tracing, spans are dropped and trace IDs fall back to request IDs.
	if !cfg.Tracing.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
	} else {
		slog.Info("tracing enabled", "service_name", cfg.Tracing.ServiceName)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize Repository
	repo, err := repository.New(cfg.Database)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Database.Driver)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Record change log
	changeLog := worker.NewWorker(busImpl)
	if err := changeLog.Start(worker.Config{}); err != nil {
		slog.Error("failed to start change log worker", "error", err)
	}

	srv := api.NewServer(cfg.Server, repo, busImpl, Version)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("portal is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	<-ctx.Done()
	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Stop after the server so in-flight writes still get logged.
	if err := changeLog.Stop(); err != nil {
		slog.Error("failed to stop change log worker", "error", err)
	}

	slog.Info("portal shutdown complete")
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg domain.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ==============================================")
	fmt.Println("               LOCAL FOOD WASTAGE PORTAL")
	fmt.Println("        Connecting surplus food with need.")
	fmt.Println("  ==============================================")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Store:    %s\n", cfg.Database.Driver)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    GET  /dashboard              - Headline metrics")
	fmt.Println("    GET  /reports                - List analytics reports")
	fmt.Println("    GET  /reports/all            - Run every report")
	fmt.Println("    GET  /reports/{name}         - Run one report")
	fmt.Println("    GET  /food                   - Search food (location, provider, food_type)")
	fmt.Println("    GET  /contacts/{kind}        - Provider or receiver contacts")
	fmt.Println("    GET  /providers              - List providers")
	fmt.Println("    POST /providers              - Add a provider")
	fmt.Println("    PUT  /providers/{id}         - Update a provider")
	fmt.Println("    DELETE /providers/{id}       - Delete a provider")
	fmt.Println("    GET  /receivers              - List receivers")
	fmt.Println("    POST /receivers              - Add a receiver")
	fmt.Println("    PUT  /receivers/{id}         - Update a receiver")
	fmt.Println("    DELETE /receivers/{id}       - Delete a receiver")
	fmt.Println("    GET  /food-listings          - Food listings table")
	fmt.Println("    GET  /claims                 - Claims table")
	fmt.Println("    GET  /health                 - Health check")
	fmt.Println()
}
