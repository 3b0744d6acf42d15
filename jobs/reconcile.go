package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/bizhub-erp/bizhub/internal/jobs"
	"github.com/bizhub-erp/bizhub/internal/ledger"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

// driftTolerance absorbs float accumulation noise; anything beyond it is
// treated as real drift and repaired.
const driftTolerance = 0.005

// BalancesReconcileJob re-derives each party's balance from the ledger feed
// and repairs the stored running total when the two disagree.
type BalancesReconcileJob struct {
	Ledger  ledger.Repository
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewBalancesReconcileJob wires dependencies for the reconcile handler.
func NewBalancesReconcileJob(ledgerRepo ledger.Repository, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *BalancesReconcileJob {
	return &BalancesReconcileJob{Ledger: ledgerRepo, Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle processes balances:reconcile tasks.
func (j *BalancesReconcileJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("balances reconcile: handler not configured")
	}
	var payload BalancesReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskBalancesReconcile)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	var keys []tenant.Key
	if payload.Tenant != "" {
		key, err := tenant.Normalize(payload.Tenant)
		if err != nil {
			return asynq.SkipRetry
		}
		keys = []tenant.Key{key}
	} else {
		var err error
		keys, err = j.Ledger.Tenants(ctx)
		if err != nil {
			resultErr = fmt.Errorf("list tenants: %w", err)
			return resultErr
		}
	}

	for _, key := range keys {
		repaired, err := j.reconcileTenant(ctx, key)
		if err != nil {
			resultErr = fmt.Errorf("reconcile %s: %w", key, err)
			return resultErr
		}
		if repaired > 0 {
			j.Metrics.AddDrift(key.String(), repaired)
			j.Logger.Warn("repaired drifted party balances",
				slog.String("tenant", key.String()), slog.Int("repaired", repaired))
		}
	}
	return resultErr
}

// reconcileTenant compares stored balances against opening balance plus the
// ledger sum and rewrites any row outside tolerance.
func (j *BalancesReconcileJob) reconcileTenant(ctx context.Context, key tenant.Key) (int, error) {
	derived, err := j.Ledger.BalancesByParty(ctx, key)
	if err != nil {
		return 0, err
	}

	rows, err := j.Pool.Query(ctx,
		`SELECT id, opening_balance, balance FROM user_parties WHERE phone_number = $1`,
		key.String())
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	type repair struct {
		id      int64
		stored  float64
		want    float64
	}
	var repairs []repair
	for rows.Next() {
		var id int64
		var opening, stored float64
		if err := rows.Scan(&id, &opening, &stored); err != nil {
			return 0, err
		}
		want := opening + derived[id]
		if math.Abs(stored-want) > driftTolerance {
			repairs = append(repairs, repair{id: id, stored: stored, want: want})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, rp := range repairs {
		if _, err := j.Pool.Exec(ctx,
			`UPDATE user_parties SET balance = $3, updated_at = NOW() WHERE phone_number = $1 AND id = $2`,
			key.String(), rp.id, rp.want); err != nil {
			return 0, err
		}
		j.Logger.Warn("party balance drift",
			slog.String("tenant", key.String()), slog.Int64("party_id", rp.id),
			slog.Float64("stored", rp.stored), slog.Float64("derived", rp.want))
	}
	return len(repairs), nil
}
