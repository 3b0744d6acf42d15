package jobs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBalancesReconcileTaskRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 30, 1, 30, 0, 0, time.UTC)
	task, err := NewBalancesReconcileTask(BalancesReconcilePayload{Tenant: "9876543210", ScheduledFor: at})
	require.NoError(t, err)
	require.Equal(t, TaskBalancesReconcile, task.Type())

	var payload BalancesReconcilePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, "9876543210", payload.Tenant)
	require.True(t, payload.ScheduledFor.Equal(at))
}

func TestReportsWarmupTaskDefaultsOmitTypes(t *testing.T) {
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{ScheduledFor: time.Now()})
	require.NoError(t, err)
	require.Equal(t, TaskReportsWarmup, task.Type())

	var payload ReportsWarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Empty(t, payload.Types)
}
