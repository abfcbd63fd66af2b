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

	"github.com/hibiken/asynq"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/sections"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/statements"
	"github.com/abschluss-erp/abschluss-erp/internal/app"
	"github.com/abschluss-erp/abschluss-erp/internal/observability"
	"github.com/abschluss-erp/abschluss-erp/internal/platform/cache"
	"github.com/abschluss-erp/abschluss-erp/internal/platform/db"
	"github.com/abschluss-erp/abschluss-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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

	metrics := observability.NewMetrics()

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
	service.WithObserver(metrics)

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

	handler := statements.NewHandler(logger, service)
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Warn("job queue unavailable, close endpoint disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		handler.WithCloseRequester(func(ctx context.Context, fiscalYearID int64) error {
			_, err := jobClient.EnqueueFiscalYearClose(ctx, jobs.FiscalYearClosePayload{FiscalYearID: fiscalYearID})
			return err
		})
	}

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		StatementsHandler: handler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
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
