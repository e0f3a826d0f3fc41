package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db      Pinger
	started time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

type DetailedStatus struct {
	HealthStatus
	Host HostStats `json:"host"`
}

// NewHealthChecker takes the database pool, or nil when running on the
// in-memory store.
func NewHealthChecker(db Pinger) *HealthChecker {
	return &HealthChecker{db: db, started: time.Now()}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status == "unhealthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

// CheckDetailed adds host CPU and memory figures to the basic check.
// Host metrics that cannot be read are reported as zero.
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	status := DetailedStatus{HealthStatus: h.CheckBasic(ctx)}

	if percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(percents) > 0 {
		status.Host.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.Host.MemoryPercent = vm.UsedPercent
		status.Host.MemoryTotalMB = vm.Total / 1024 / 1024
		status.Host.MemoryUsedMB = vm.Used / 1024 / 1024
	}
	status.Host.Goroutines = runtime.NumGoroutine()
	status.Host.UptimeSeconds = int64(time.Since(h.started).Seconds())
	return status
}

func (h *HealthChecker) checkDatabase(ctx context.Context) DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "not_configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
