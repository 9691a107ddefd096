package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Melanieheviap/DataViz-S5/internal/adapter/httpadapter"
	"github.com/Melanieheviap/DataViz-S5/internal/adapter/xlsx"
	"github.com/Melanieheviap/DataViz-S5/internal/config"
	"github.com/Melanieheviap/DataViz-S5/internal/deck"
	"github.com/Melanieheviap/DataViz-S5/internal/domain"
	"github.com/Melanieheviap/DataViz-S5/internal/observability"
	"github.com/Melanieheviap/DataViz-S5/internal/pipeline"
	"github.com/Melanieheviap/DataViz-S5/internal/session"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
)

const janitorInterval = time.Minute

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	reader := xlsx.NewReader(cfg.SourcePath, cfg.SourceSheet, cfg.SourceHeaderRow, logger)
	fallback := domain.Geo{Lat: cfg.FallbackLat, Lon: cfg.FallbackLng}
	p := pipeline.New(reader, fallback, clock, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := p.Load(ctx); err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Error("source schema mismatch", "source", schemaErr.Source, "missing", schemaErr.Missing)
		} else {
			logger.Error("failed to load source", "source", reader.Identity(), "error", err)
		}
		os.Exit(1)
	}

	sessions := session.NewStore(cfg.SessionCapacity, cfg.SessionIdleTimeout, clock, metrics)
	settings := deck.Settings{Zoom: cfg.MapZoom, Pitch: cfg.MapPitch}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, sessions, settings, logger)

	go sessions.RunJanitor(ctx, janitorInterval)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
