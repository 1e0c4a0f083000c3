package services

import (
	"context"
	"sync/atomic"

	"github.com/apela812/server-stat-TG/internal/models"
)

// stubCollector returns canned snapshots and counts status calls
type stubCollector struct {
	status      *models.StatusSnapshot
	err         error
	statusCalls atomic.Int32
}

func (s *stubCollector) CollectCPU(context.Context) (*models.CPUStats, error) {
	return s.status.CPU, s.err
}

func (s *stubCollector) CollectRAM(context.Context) (*models.RAMStats, error) {
	return s.status.RAM, s.err
}

func (s *stubCollector) CollectDisks(context.Context) ([]models.DiskStats, error) {
	return nil, s.err
}

func (s *stubCollector) CollectNetwork(context.Context) (*models.NetworkStats, error) {
	return &models.NetworkStats{}, s.err
}

func (s *stubCollector) CollectSystemInfo(context.Context) (*models.SystemInfo, error) {
	return s.status.System, s.err
}

func (s *stubCollector) CollectProcesses(context.Context, models.SortBy, int) ([]models.ProcessInfo, error) {
	return nil, s.err
}

func (s *stubCollector) CollectStatus(context.Context) (*models.StatusSnapshot, error) {
	s.statusCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.status, nil
}
