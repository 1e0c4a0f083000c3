package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/apela812/server-stat-TG/internal/models"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// DefaultProcessLimit is the number of processes shown per list
const DefaultProcessLimit = 15

// CollectProcesses returns up to limit processes ordered by the requested metric.
// Pipeline: Collect → Sort → Limit
func (s *SystemCollector) CollectProcesses(ctx context.Context, sortBy models.SortBy, limit int) ([]models.ProcessInfo, error) {
	// COLLECT
	collected, err := s.collectProcesses(ctx)
	if err != nil {
		return nil, err
	}

	// SORT
	sorted := sortProcesses(collected, sortBy)

	// LIMIT
	return limitTo(sorted, limit), nil
}

// COLLECT: processes that exit or deny access between enumeration and
// inspection are dropped.
func (s *SystemCollector) collectProcesses(ctx context.Context) ([]models.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	processes := make([]models.ProcessInfo, 0, len(procs))
	seenPIDs := make(map[int32]bool)

	for _, p := range procs {
		if seenPIDs[p.Pid] {
			continue
		}
		seenPIDs[p.Pid] = true

		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}

		cpuPercent, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			cpuPercent = 0
		}

		memPercent, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			memPercent = 0
		}

		state := "unknown"
		if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
			state = mapProcessState(status[0])
		}

		processes = append(processes, models.ProcessInfo{
			PID:           p.Pid,
			Name:          name,
			CPUPercent:    cpuPercent,
			MemoryPercent: float64(memPercent),
			Status:        state,
		})
	}

	s.log.Debug("processes collected", zap.Int("count", len(processes)), zap.Int("listed", len(procs)))
	return processes, nil
}

// SORT: descending by the chosen metric. Equal values keep their
// collection order.
func sortProcesses(processes []models.ProcessInfo, sortBy models.SortBy) []models.ProcessInfo {
	sorted := make([]models.ProcessInfo, len(processes))
	copy(sorted, processes)

	metric := func(p models.ProcessInfo) float64 { return p.MemoryPercent }
	if sortBy == models.SortByCPU {
		metric = func(p models.ProcessInfo) float64 { return p.CPUPercent }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return metric(sorted[i]) > metric(sorted[j])
	})
	return sorted
}

// LIMIT: Keep only top N
func limitTo(processes []models.ProcessInfo, limit int) []models.ProcessInfo {
	if limit < 0 {
		limit = 0
	}
	if len(processes) > limit {
		return processes[:limit]
	}
	return processes
}

// mapProcessState converts process state codes to readable strings
func mapProcessState(state string) string {
	if len(state) == 0 {
		return "unknown"
	}
	switch strings.ToLower(state) {
	case "r", "running":
		return "running"
	case "s", "sleep", "sleeping":
		return "sleeping"
	case "d", "disk-sleep", "disk_sleep":
		return "disk_sleep"
	case "z", "zombie":
		return "zombie"
	case "t", "stop", "stopped":
		return "stopped"
	case "i", "idle":
		return "idle"
	case "w", "wait", "paging":
		return "waiting"
	case "l", "lock":
		return "locked"
	case "x", "dead":
		return "dead"
	default:
		return state
	}
}
