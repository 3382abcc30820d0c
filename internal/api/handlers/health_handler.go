package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quizdeck/quizdeck-be/internal/services"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports service status, user count and host resource usage.
type HealthHandler struct {
	service services.UserServiceProvider
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service services.UserServiceProvider) *HealthHandler {
	return &HealthHandler{service: service, started: time.Now()}
}

// Status is the health-check response body.
type Status struct {
	Status        string  `json:"status"`
	Users         int     `json:"users"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemUsedMB     uint64  `json:"memUsedMb"`
}

// Get handles the health-check request. Host metrics are best-effort and
// reported as zero when unavailable.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := Status{
		Status:        "ok",
		Users:         h.service.Count(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemUsedMB = vm.Used / 1024 / 1024
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
