package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskFiscalYearClose posts the closing statement snapshot for a year.
	TaskFiscalYearClose = "fiscalyear:post_snapshot"
)

// FiscalYearClosePayload identifies the year being closed.
type FiscalYearClosePayload struct {
	FiscalYearID int64 `json:"fiscal_year_id"`
	RequestedBy  int64 `json:"requested_by,omitempty"`
}

// NewFiscalYearCloseTask constructs an Asynq task.
func NewFiscalYearCloseTask(payload FiscalYearClosePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFiscalYearClose, data), nil
}
