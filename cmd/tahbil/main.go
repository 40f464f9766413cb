package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tahbil/internal/ai"
	"tahbil/internal/amqp"
	"tahbil/internal/auth"
	"tahbil/internal/cache"
	"tahbil/internal/config"
	apphttp "tahbil/internal/http"
	"tahbil/internal/imghost"
	"tahbil/internal/live"
	applog "tahbil/internal/log"
	"tahbil/internal/notify"
	"tahbil/internal/storage"
	"tahbil/internal/store"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := store.NewHub()
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, hub)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	if err := auth.NewAuthenticator(repo, cfg.AdminEmail).EnsureAdmin(ctx, cfg.AdminPassword); err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	ledgerCache := live.NewCache(repo)
	if err := ledgerCache.Start(ctx); err != nil {
		slog.Error("Failed to load ledger snapshot", "error", err)
		os.Exit(1)
	}
	defer ledgerCache.Close()

	var insights ai.InsightGenerator
	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		insights = client
	} else {
		slog.Info("Gemini disabled - no GEMINI_API_KEY provided")
	}

	var photos *imghost.Client
	if cfg.ImgbbAPIKey != "" {
		photos = imghost.NewClient(cfg.ImgbbAPIKey)
	} else {
		slog.Info("Photo upload disabled - no IMGBB_API_KEY provided")
	}

	var publisher apphttp.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
	} else {
		slog.Info("AMQP disabled - no AMQP_URL provided")
	}

	quoteCache := cache.NewTTLCache[string](8, 24*time.Hour)
	quoteCache.StartJanitor(time.Hour)
	defer quoteCache.Stop()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:        ":" + cfg.Port,
		Store:       repo,
		Cache:       ledgerCache,
		Auth:        auth.NewAuthenticator(repo, cfg.AdminEmail),
		JWT:         auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		Notify:      notify.NewCenter(notify.DefaultVisible, notify.DefaultTTL),
		Insights:    insights,
		QuoteCache:  quoteCache,
		Photos:      photos,
		Publisher:   publisher,
		StartMonth:  cfg.StartMonth,
		FundName:    cfg.FundName,
		FundAddress: cfg.FundAddress,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting tahbil server", "port", cfg.Port, "fund", cfg.FundName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped gracefully")
}
