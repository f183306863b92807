package observability

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_Update(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(logs.GetLoggerFromLevel(slog.LevelDebug))

	req.Zero(mm.GetLatest().Connections)

	mm.Update(MonitoringStats{Connections: 3, CPUPercent: 1.5, RSSBytes: 42})

	latest := mm.GetLatest()
	req.Equal(3, latest.Connections)
	req.Equal(1.5, latest.CPUPercent)
	req.Equal(uint64(42), latest.RSSBytes)
	req.Positive(latest.Goroutines)
	req.False(latest.SampledAt.IsZero())
}

func TestNewMetrics_Registers_Collectors(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ActiveConnections.Inc()
	m.Frames.WithLabelValues("text", "in").Inc()
	m.Broadcasts.Add(2)

	req.Equal(float64(1), testutil.ToFloat64(m.ActiveConnections))
	req.Equal(float64(2), testutil.ToFloat64(m.Broadcasts))

	families, err := reg.Gather()
	req.NoError(err)
	req.NotEmpty(families)
}
