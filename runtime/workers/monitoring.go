package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"

	"github.com/shirou/gopsutil/process"
)

// MonitoringWorker samples the server process and the registry size.
type MonitoringWorker struct {
	log        *slog.Logger
	registry   contract.IRegistry
	monitoring *observability.MonitoringManager
	metrics    *observability.Metrics
	interval   time.Duration
}

func NewMonitoringWorker(
	log *slog.Logger,
	registry contract.IRegistry,
	monitoring *observability.MonitoringManager,
	metrics *observability.Metrics,
	interval time.Duration,
) *MonitoringWorker {
	return &MonitoringWorker{
		log:        log,
		registry:   registry,
		monitoring: monitoring,
		metrics:    metrics,
		interval:   interval,
	}
}

func (w *MonitoringWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Sample(p)
		}
	}
}

// Sample records one snapshot. Process stat failures still publish the
// connection count.
func (w *MonitoringWorker) Sample(p *process.Process) {
	stats := observability.MonitoringStats{Connections: w.registry.Len()}

	rss, cpu, status, err := selfStats(p)
	if err != nil {
		w.log.Debug("Failed to collect self stats", "error", err)
	} else {
		stats.RSSBytes = rss
		stats.CPUPercent = cpu
		stats.PidStatus = status
		w.metrics.ProcessRSS.Set(float64(rss))
		w.metrics.ProcessCPU.Set(cpu)
	}
	w.monitoring.Update(stats)
}

func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
