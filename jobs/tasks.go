package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBalancesReconcile re-derives party balances from the ledger feed.
	TaskBalancesReconcile = "balances:reconcile"
	// TaskReportsWarmup pre-computes the hot reports for active tenants.
	TaskReportsWarmup = "reports:warmup"
)

// BalancesReconcilePayload scopes a reconciliation run. An empty Tenant means
// every tenant present in the ledger.
type BalancesReconcilePayload struct {
	Tenant       string    `json:"tenant,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewBalancesReconcileTask constructs an Asynq task for balance reconciliation.
func NewBalancesReconcileTask(payload BalancesReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalancesReconcile, body, asynq.Queue(QueueDefault)), nil
}

// ReportsWarmupPayload lists the report types to pre-compute.
type ReportsWarmupPayload struct {
	Types        []string  `json:"types,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewReportsWarmupTask constructs an Asynq task for report cache warmup.
func NewReportsWarmupTask(payload ReportsWarmupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, body, asynq.Queue(QueueDefault)), nil
}
