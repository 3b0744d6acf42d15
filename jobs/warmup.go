package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/bizhub-erp/bizhub/internal/jobs"
	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/reports"
)

// ReportsWarmupJob pre-computes the hot reports for every tenant active in
// the ledger, so first morning requests hit a warm cache.
type ReportsWarmupJob struct {
	Reports *reports.Service
	Ledger  ledger.Repository
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(reportsSvc *reports.Service, ledgerRepo ledger.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportsWarmupJob {
	return &ReportsWarmupJob{Reports: reportsSvc, Ledger: ledgerRepo, Logger: logger, Metrics: metrics}
}

// Handle processes reports:warmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	types := payload.Types
	if len(types) == 0 {
		types = []string{reports.TypeDashboard, reports.TypeTransactionSummary}
	}

	tracker := j.Metrics.Track(TaskReportsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	keys, err := j.Ledger.Tenants(ctx)
	if err != nil {
		resultErr = err
		return resultErr
	}
	warmed := 0
	for _, key := range keys {
		for _, reportType := range types {
			if _, err := j.Reports.Generate(ctx, key, reportType, "", ""); err != nil {
				j.Logger.Error("report warmup failed",
					slog.String("tenant", key.String()), slog.String("type", reportType), slog.Any("error", err))
				resultErr = err
				return resultErr
			}
			warmed++
		}
	}
	j.Logger.Info("report warmup complete", slog.Int("tenants", len(keys)), slog.Int("reports", warmed))
	return resultErr
}
