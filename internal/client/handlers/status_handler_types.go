package handlers

import "github.com/taskmirror/taskmirror/internal/mirror"

// StatusResponse represents the health status of the daemon.
type StatusResponse struct {
	Status    string          `json:"status"`    // health status ("ok").
	Timestamp string          `json:"ts"`        // timestamp when the status was sampled.
	Version   string          `json:"version"`   // version of the daemon.
	Revision  string          `json:"revision"`  // revision of the daemon.
	BuildDate string          `json:"buildDate"` // build date of the daemon.
	Schedule  ScheduleInfo    `json:"schedule"`
	LastPass  *mirror.PassRun `json:"lastPass,omitempty"` // nil until the first pass completes
	Passes    int             `json:"passes"`             // total recorded passes
	Process   *ProcessInfo    `json:"process,omitempty"`
}

type ScheduleInfo struct {
	IntervalMinutes int    `json:"intervalMinutes"`
	Expression      string `json:"expression"`
}

type ProcessInfo struct {
	PID        int32   `json:"pid"`
	MemoryRSS  string  `json:"memoryRss"`
	CPUPercent float64 `json:"cpuPercent"`
	Uptime     string  `json:"uptime"`
}
