package metrics_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))
	require.NoError(t, err)

	m.Login(metrics.OutcomeSuccess)
	m.Login(metrics.OutcomeRejected)
	m.Login(metrics.OutcomeRejected)
	m.Refresh(metrics.OutcomeShared)
	m.Logout(metrics.OutcomeForced)
	m.Replay()
	m.APIRequest("GET", 200, 15*time.Millisecond)

	require.Equal(t, 1.0, m.LoginCount(metrics.OutcomeSuccess))
	require.Equal(t, 2.0, m.LoginCount(metrics.OutcomeRejected))
	require.Equal(t, 1.0, m.RefreshCount(metrics.OutcomeShared))
	require.Equal(t, 1.0, m.LogoutCount(metrics.OutcomeForced))
	require.Equal(t, 1.0, m.ReplayCount())
	require.Equal(t, 1.0, m.APIRequestCount("GET", 200))

	count, err := testutil.GatherAndCount(reg, "test_logins_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(metrics.WithRegistry(reg))
	require.NoError(t, err)
	_, err = metrics.New(metrics.WithRegistry(reg))
	require.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.Login(metrics.OutcomeSuccess)
	m.APIRequest("GET", 500, time.Second)
	require.Zero(t, m.LoginCount(metrics.OutcomeSuccess))
}
