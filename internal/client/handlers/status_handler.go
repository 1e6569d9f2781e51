package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/taskmirror/taskmirror/internal/history"
	"github.com/taskmirror/taskmirror/internal/mirror"
	"github.com/taskmirror/taskmirror/internal/version"
)

// StatusHandler handles status-related endpoints
type StatusHandler struct {
	mgr     *mirror.Manager
	journal *history.Journal
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(mgr *mirror.Manager, journal *history.Journal) *StatusHandler {
	return &StatusHandler{
		mgr:     mgr,
		journal: journal,
	}
}

// Status returns daemon health, the active schedule and the last pass.
func (h *StatusHandler) Status(ctx *gin.Context) {
	sched := h.mgr.Schedule()

	passes := 0
	if h.journal != nil {
		if n, err := h.journal.Count(ctx.Request.Context()); err == nil {
			passes = n
		}
	}

	ctx.PureJSON(http.StatusOK, &StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version.Version,
		Revision:  version.Revision,
		BuildDate: version.BuildDate,
		Schedule: ScheduleInfo{
			IntervalMinutes: sched.Minutes(),
			Expression:      sched.Expression(),
		},
		LastPass: h.mgr.LastRun(),
		Passes:   passes,
		Process:  processInfo(),
	})
}

// processInfo is best-effort, a nil block is fine on platforms where
// sampling fails.
func processInfo() *ProcessInfo {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil
	}

	info := &ProcessInfo{PID: p.Pid}
	if mem, err := p.MemoryInfo(); err == nil {
		info.MemoryRSS = humanize.IBytes(mem.RSS)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		info.CPUPercent = cpu
	}
	if created, err := p.CreateTime(); err == nil {
		started := time.UnixMilli(created)
		info.Uptime = time.Since(started).Round(time.Second).String()
	}
	return info
}
