package workers

import (
	"log/slog"
	"os"
	"testing"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/mocks"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMonitoringWorker_Sample(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	manager := observability.NewMonitoringManager(log)

	// Given three registered connections
	mockRegistry.EXPECT().Len().Return(3).Times(1)

	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	w := NewMonitoringWorker(log, mockRegistry, manager, metrics, 0)

	// When a sample is taken
	w.Sample(p)

	// Then the snapshot carries the registry size and process figures
	stats := manager.GetLatest()
	req.Equal(3, stats.Connections)
	req.Positive(stats.Goroutines)
	req.False(stats.SampledAt.IsZero())
	req.Equal(float64(stats.RSSBytes), testutil.ToFloat64(metrics.ProcessRSS))
}
