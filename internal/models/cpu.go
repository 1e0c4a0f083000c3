package models

// CPUStats represents a single CPU usage sample
type CPUStats struct {
	Percent       float64  `json:"percent"`
	FreqCurrent   *float64 `json:"freq_current_mhz,omitempty"`
	FreqMax       *float64 `json:"freq_max_mhz,omitempty"`
	CoresPhysical int      `json:"cores_physical"`
	CoresLogical  int      `json:"cores_logical"`
}
