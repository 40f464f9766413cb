package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"tahbil/internal/ai"
	"tahbil/internal/amqp"
	"tahbil/internal/config"
	applog "tahbil/internal/log"
	"tahbil/internal/storage"
	"tahbil/internal/store"
	"tahbil/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	applog.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.GeminiAPIKey == "" {
		slog.Error("Worker requires GEMINI_API_KEY; nothing to refresh without the model")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := store.NewHub()
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, hub)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	gen, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}

	w := worker.NewInsightWorker(repo, gen)

	if err := w.StartupRefresh(ctx); err != nil {
		slog.Error("Startup insight refresh failed", "error", err)
		// keep running; the scheduled refresh will retry
	}

	// Daily refresh keeps the summary current even on quiet days.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		rctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := w.RefreshInsight(rctx); err != nil {
			slog.Error("Scheduled insight refresh failed", "error", err)
		}
	}); err != nil {
		slog.Error("Failed to schedule daily refresh", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		go func() {
			err := amqpClient.ConsumeLedgerChanged(ctx, func(msg *amqp.LedgerChangedMessage) error {
				return w.HandleLedgerChanged(ctx, msg)
			})
			if err != nil && ctx.Err() == nil {
				slog.Error("Message consumption failed", "error", err)
			}
			stop()
		}()
		slog.Info("Consuming ledger changes", "queue", cfg.AMQPQueue)
	} else {
		slog.Info("AMQP disabled - running on the daily schedule only")
	}

	slog.Info("tahbil-worker started")
	<-ctx.Done()
	slog.Info("Worker stopped gracefully")
}
