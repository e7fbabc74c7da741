package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/actuallystonmai/nutrition-recommender/internal/backend"
	"github.com/actuallystonmai/nutrition-recommender/internal/cache"
	"github.com/actuallystonmai/nutrition-recommender/internal/config"
	"github.com/actuallystonmai/nutrition-recommender/internal/handler"
	"github.com/actuallystonmai/nutrition-recommender/internal/logger"
	"github.com/actuallystonmai/nutrition-recommender/internal/model"
	"github.com/actuallystonmai/nutrition-recommender/internal/repository"
	"github.com/actuallystonmai/nutrition-recommender/internal/router"
	"github.com/actuallystonmai/nutrition-recommender/internal/service"
	"github.com/actuallystonmai/nutrition-recommender/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("failed to parse database config", zap.Error(err))
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, zl); err != nil {
		zl.Fatal("database not ready", zap.Error(err))
	}
	zl.Info("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			zl.Fatal("failed to migrate down", zap.Error(err))
		}
		zl.Info("migrations dropped")
		return
	}
	if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		zl.Fatal("failed to migrate up", zap.Error(err))
	}

	repo := repository.NewRepository(pool)

	// ------------ Setup Seed Data ---------------
	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := checkSeed(ctx, pool, repo, zl); err != nil {
			zl.Fatal("failed to seed", zap.Error(err))
		}
	}

	// ------------ Redis ---------------
	checks := map[string]handler.Check{"postgres": repo.Ping}
	var recCache service.RecommendationCache = cache.Noop{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zl.Fatal("failed to parse redis url", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		c := cache.NewCache(rdb, cfg.CacheTTL)
		if err := c.Ping(ctx); err != nil {
			zl.Warn("redis unreachable, recommendations will not be cached until it recovers", zap.Error(err))
		}
		recCache = c
		checks["redis"] = c.Ping
	}

	// ------------ Engine ---------------
	tables, err := model.LoadTables(cfg.ModelTablesPath)
	if err != nil {
		zl.Warn("model tables override ignored, using defaults", zap.Error(err))
	}
	engine := model.NewEngine(tables)

	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, cfg.BackendRetries, zl)
	svc := service.NewService(backendClient, repo, recCache, engine,
		service.WithLogger(zl),
		service.WithBatchConcurrency(cfg.BatchConcurrency),
	)
	h := handler.NewHandler(svc, zl)

	// ---------------- Server --------------------
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, checks, cfg.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()), zap.String("backend", cfg.BackendURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, zl *zap.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		zl.Info("waiting for database", zap.Int("attempt", i+1), zap.Int("of", 30))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration %s: %w", path, err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, repo *repository.Repository, zl *zap.Logger) error {
	count, err := repo.CountHealthProfiles(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		zl.Info("database already seeded, skipping", zap.Int("profiles", count))
		return nil
	}
	return seeds.Setup(ctx, pool, zl)
}
