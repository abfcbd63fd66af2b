package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/shared"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/statements"
)

// FiscalYearCloseJob computes the final statement for a year being closed
// and persists it as the authoritative closing snapshot. Asynq's unique-task
// option serialises close runs per fiscal year.
type FiscalYearCloseJob struct {
	Service *statements.Service
	Logger  *slog.Logger
}

// NewFiscalYearCloseJob initialises the close handler.
func NewFiscalYearCloseJob(service *statements.Service, logger *slog.Logger) *FiscalYearCloseJob {
	return &FiscalYearCloseJob{Service: service, Logger: logger}
}

// Handle executes the close run.
func (j *FiscalYearCloseJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("fiscal year close: handler not configured")
	}
	var payload FiscalYearClosePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	logger := j.logger().With(slog.Int64("fiscal_year_id", payload.FiscalYearID))

	start := time.Now()
	snap, err := j.Service.PostClosingSnapshot(ctx, payload.FiscalYearID)
	if err != nil {
		if errors.Is(err, shared.ErrSnapshotExists) {
			logger.Info("closing snapshot already posted, skipping")
			return nil
		}
		logger.Error("close run failed", slog.Any("error", err))
		return err
	}

	logger.Info("close run completed",
		slog.String("snapshot_id", snap.ID.String()),
		slog.Time("posted_at", snap.PostedAt),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *FiscalYearCloseJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskFiscalYearClose))
	}
	return slog.Default().With(slog.String("job", TaskFiscalYearClose))
}
