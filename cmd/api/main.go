package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"

	"github.com/vidyastream/backend/internal/ads"
	"github.com/vidyastream/backend/internal/auth"
	"github.com/vidyastream/backend/internal/config"
	"github.com/vidyastream/backend/internal/engagement"
	"github.com/vidyastream/backend/internal/middleware"
	"github.com/vidyastream/backend/internal/repository"
	"github.com/vidyastream/backend/internal/router"
	"github.com/vidyastream/backend/internal/wallet"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		slog.Error("Config error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Postgres may still be coming up when the service starts.
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("Waiting for PostgreSQL", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL database successfully!")

	if err := repository.RunMigrations(ctx, cfg.DatabaseURL, "up"); err != nil {
		slog.Error("Schema migrations failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Schema migrations applied")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	userRepo := repository.NewUserRepo(pool)
	txRepo := repository.NewTransactionRepo(pool)
	adRepo := repository.NewAdRepo(pool)
	engagementRepo := repository.NewEngagementRepo(pool)

	workers := river.NewWorkers()
	river.AddWorker(workers, wallet.NewReconcileWorker(userRepo, txRepo, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	enqueueReconcile := func(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
		_, err := riverClient.InsertTx(ctx, tx, wallet.ReconcileArgs{UserID: userID}, nil)
		return err
	}

	walletSvc := wallet.NewService(userRepo, txRepo, cfg.WelcomeBonusPaise, enqueueReconcile)
	walletHandler := wallet.NewHandler(walletSvc, logger)

	adsSvc := ads.NewService(adRepo)
	adsHandler := ads.NewHandler(adsSvc, adRepo, logger)

	engagementHandler := engagement.NewHandler(engagementRepo, logger)

	authSvc := auth.NewService(userRepo, cfg.JWTSecret)
	authHandler := auth.NewHandler(authSvc, logger)

	if cfg.AdminEmail != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
			slog.Error("Admin bootstrap failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Admin account ready", "email", cfg.AdminEmail)
	}

	mux := router.New(walletHandler, adsHandler, engagementHandler, authHandler, middleware.AdminAuth(authSvc))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)

	// Start River client (processes jobs)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	slog.Info("Starting HTTP server", "addr", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
