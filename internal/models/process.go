package models

// SortBy selects the metric a process list is ordered by
type SortBy string

const (
	SortByCPU    SortBy = "cpu"
	SortByMemory SortBy = "memory"
)

// ParseSortBy maps a query value to a SortBy, defaulting to memory
func ParseSortBy(s string) SortBy {
	if s == string(SortByCPU) {
		return SortByCPU
	}
	return SortByMemory
}

type ProcessInfo struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	Status        string  `json:"status,omitempty"`
}
