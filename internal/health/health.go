package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *pgxpool.Pool. A nil Pinger means the in-memory
// store, which is always reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	store string
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Store    string         `json:"store"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

type DetailedStatus struct {
	HealthStatus
	Host HostStats `json:"host"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker(db Pinger, store string) *HealthChecker {
	return &HealthChecker{db: db, store: store}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Store:    h.store,
		Database: dbHealth,
	}
}

// CheckDetailed adds host load. Sampling CPU blocks for 200ms.
func (h *HealthChecker) CheckDetailed() DetailedStatus {
	out := DetailedStatus{HealthStatus: h.CheckBasic()}

	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		out.Host.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out.Host.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		out.Host.DiskPercent = du.UsedPercent
	}
	return out
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "healthy"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
