package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/fiscalyears"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/sections"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/statements"
	"github.com/abschluss-erp/abschluss-erp/internal/app"
	"github.com/abschluss-erp/abschluss-erp/internal/platform/cache"
	"github.com/abschluss-erp/abschluss-erp/internal/platform/db"
	"github.com/abschluss-erp/abschluss-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	sectionCfg, err := loadSections(cfg)
	if err != nil {
		logger.Error("load section configuration", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	index := sections.NewIndex(sectionCfg)
	resolver, err := statements.NewResolver(sectionCfg)
	if err != nil {
		logger.Error("build presentation resolver", slog.Any("error", err))
		os.Exit(1)
	}
	builder, err := statements.NewBuilder(index, resolver, "eigenkapital")
	if err != nil {
		logger.Error("build statement builder", slog.Any("error", err))
		os.Exit(1)
	}

	service := statements.NewService(statements.NewDataSource(pool), builder)
	service.WithLogger(logger)
	service.WithSnapshotStore(fiscalyears.NewRepository(pool))

	if redisClient, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, statement cache disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		service.WithCache(statements.NewCache(redisClient, cfg.StatementCacheTTL))
	}

	closeJob := jobs.NewFiscalYearCloseJob(service, logger)
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskFiscalYearClose, Handler: closeJob.Handle},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadSections(cfg *app.Config) (*sections.Config, error) {
	if cfg.SectionConfigPath == "" {
		return sections.LoadDefault()
	}
	data, err := os.ReadFile(cfg.SectionConfigPath)
	if err != nil {
		return nil, err
	}
	return sections.Load(data)
}
