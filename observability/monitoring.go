package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// MonitoringStats is the latest process snapshot exposed on /healthz.
type MonitoringStats struct {
	Connections int       `json:"connections"`
	CPUPercent  float64   `json:"cpu_percent"`
	RSSBytes    uint64    `json:"rss_bytes"`
	PidStatus   string    `json:"pid_status"`
	AllocMemMb  uint64    `json:"alloc_mem_mb"`
	NumGC       uint32    `json:"num_gc"`
	Goroutines  int       `json:"goroutines"`
	SampledAt   time.Time `json:"sampled_at"`
}

// MonitoringManager keeps the latest sample, written by the monitoring
// worker and read by HTTP handlers.
type MonitoringManager struct {
	log         *slog.Logger
	mu          sync.RWMutex
	latestStats MonitoringStats
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log}
}

// Update stores a process sample and completes it with Go runtime figures.
func (mm *MonitoringManager) Update(stats MonitoringStats) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.AllocMemMb = m.Alloc / 1024 / 1024
	stats.NumGC = m.NumGC
	stats.Goroutines = runtime.NumGoroutine()
	if stats.SampledAt.IsZero() {
		stats.SampledAt = time.Now().UTC()
	}

	mm.mu.Lock()
	mm.latestStats = stats
	mm.mu.Unlock()

	mm.log.Debug("Stats updated",
		"connections", stats.Connections,
		"cpu", stats.CPUPercent,
		"rss", stats.RSSBytes,
		"goroutines", stats.Goroutines,
	)
}

func (mm *MonitoringManager) GetLatest() MonitoringStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
