package models

import (
	"encoding/json"
	"time"
)

// SystemInfo represents general host information. Uptime is encoded as
// whole seconds under uptime_seconds.
type SystemInfo struct {
	Platform     string        `json:"platform"`
	Hostname     string        `json:"hostname"`
	Uptime       time.Duration `json:"-"`
	TemperatureC *float64      `json:"temperature_c,omitempty"`
	CPUCount     int           `json:"cpu_count"`
}

func (s SystemInfo) MarshalJSON() ([]byte, error) {
	type plain SystemInfo
	return json.Marshal(struct {
		plain
		UptimeSeconds int64 `json:"uptime_seconds"`
	}{plain(s), int64(s.Uptime.Seconds())})
}

// StatusSnapshot combines the metrics shown on the general status screen.
// All three parts come from one collection call.
type StatusSnapshot struct {
	CPU    *CPUStats   `json:"cpu"`
	RAM    *RAMStats   `json:"ram"`
	System *SystemInfo `json:"system"`
}
