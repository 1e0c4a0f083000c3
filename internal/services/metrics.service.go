package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apela812/server-stat-TG/internal/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"
)

const (
	GB = 1024 * 1024 * 1024
	MB = 1024 * 1024

	// MaxInterfaces caps the interface list of a network snapshot.
	MaxInterfaces = 5

	defaultCPUSampleInterval = time.Second
	scalingCurFreqPath       = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"
)

// Collector produces point-in-time host metric snapshots. Every call is a
// fresh sample; nothing is cached between calls.
type Collector interface {
	CollectCPU(ctx context.Context) (*models.CPUStats, error)
	CollectRAM(ctx context.Context) (*models.RAMStats, error)
	CollectDisks(ctx context.Context) ([]models.DiskStats, error)
	CollectNetwork(ctx context.Context) (*models.NetworkStats, error)
	CollectSystemInfo(ctx context.Context) (*models.SystemInfo, error)
	CollectProcesses(ctx context.Context, sortBy models.SortBy, limit int) ([]models.ProcessInfo, error)
	CollectStatus(ctx context.Context) (*models.StatusSnapshot, error)
}

// SystemCollector implements Collector on top of gopsutil.
type SystemCollector struct {
	log            *zap.Logger
	sampleInterval time.Duration
	freqPath       string
}

// NewSystemCollector creates a collector that samples CPU load over a one
// second window.
func NewSystemCollector(logger *zap.Logger) *SystemCollector {
	return &SystemCollector{
		log:            logger,
		sampleInterval: defaultCPUSampleInterval,
		freqPath:       scalingCurFreqPath,
	}
}

var _ Collector = (*SystemCollector)(nil)

// CollectCPU returns CPU load, frequencies and core counts
func (s *SystemCollector) CollectCPU(ctx context.Context) (*models.CPUStats, error) {
	percentage, err := cpu.PercentWithContext(ctx, s.sampleInterval, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU usage: %w", err)
	}
	if len(percentage) == 0 {
		return nil, errors.New("failed to get CPU usage: no samples returned")
	}

	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		s.log.Warn("could not get physical core count", zap.Error(err))
	}

	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		s.log.Warn("could not get logical core count", zap.Error(err))
	}

	current, peak := s.cpuFrequencies(ctx)

	return &models.CPUStats{
		Percent:       percentage[0],
		FreqCurrent:   current,
		FreqMax:       peak,
		CoresPhysical: physical,
		CoresLogical:  logical,
	}, nil
}

// cpuFrequencies returns the current and maximum frequency in MHz. Either
// may be nil when the platform does not expose it.
func (s *SystemCollector) cpuFrequencies(ctx context.Context) (current, peak *float64) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		s.log.Debug("cpu info unavailable", zap.Error(err))
	}
	if len(infos) > 0 && infos[0].Mhz > 0 {
		v := infos[0].Mhz
		peak = &v
	}

	current = readScalingFreq(s.freqPath)
	if current == nil && peak != nil {
		v := *peak
		current = &v
	}
	return current, peak
}

// readScalingFreq reads a cpufreq sysfs value (kHz) and converts it to MHz.
func readScalingFreq(path string) *float64 {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || khz <= 0 {
		return nil
	}
	mhz := khz / 1000
	return &mhz
}

// CollectRAM returns memory usage information
func (s *SystemCollector) CollectRAM(ctx context.Context) (*models.RAMStats, error) {
	virtualMemory, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory usage: %w", err)
	}

	return &models.RAMStats{
		Percent:     virtualMemory.UsedPercent,
		TotalGB:     float64(virtualMemory.Total) / GB,
		AvailableGB: float64(virtualMemory.Available) / GB,
		UsedGB:      float64(virtualMemory.Used) / GB,
	}, nil
}

// CollectDisks returns usage for all partitions. Mount points whose usage
// cannot be read are skipped.
func (s *SystemCollector) CollectDisks(ctx context.Context) ([]models.DiskStats, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}

	return diskStats(partitions, func(path string) (*disk.UsageStat, error) {
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			s.log.Debug("skipping mount point", zap.String("mountpoint", path), zap.Error(err))
		}
		return usage, err
	}), nil
}

func diskStats(partitions []disk.PartitionStat, usage func(string) (*disk.UsageStat, error)) []models.DiskStats {
	statuses := make([]models.DiskStats, 0, len(partitions))

	for _, partition := range partitions {
		u, err := usage(partition.Mountpoint)
		if err != nil || u == nil {
			continue
		}

		statuses = append(statuses, models.DiskStats{
			Device:     partition.Device,
			Mountpoint: partition.Mountpoint,
			Fstype:     partition.Fstype,
			TotalGB:    float64(u.Total) / GB,
			UsedGB:     float64(u.Used) / GB,
			FreeGB:     float64(u.Free) / GB,
			Percent:    u.UsedPercent,
		})
	}

	return statuses
}

// CollectNetwork returns totals across all interfaces plus up to
// MaxInterfaces link addresses
func (s *SystemCollector) CollectNetwork(ctx context.Context) (*models.NetworkStats, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get network counters: %w", err)
	}
	if len(counters) == 0 {
		return nil, errors.New("failed to get network counters: no counters returned")
	}
	total := counters[0]

	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		s.log.Warn("could not list network interfaces", zap.Error(err))
	}

	return &models.NetworkStats{
		SentMB:      float64(total.BytesSent) / MB,
		RecvMB:      float64(total.BytesRecv) / MB,
		PacketsSent: total.PacketsSent,
		PacketsRecv: total.PacketsRecv,
		Interfaces:  interfaceAddresses(ifaces, MaxInterfaces),
	}, nil
}

func interfaceAddresses(ifaces []net.InterfaceStat, limit int) []string {
	out := make([]string, 0, limit)
	for _, iface := range ifaces {
		if len(out) >= limit {
			break
		}
		if iface.HardwareAddr == "" {
			continue
		}
		out = append(out, iface.Name+": "+iface.HardwareAddr)
	}
	return out
}

// CollectSystemInfo returns platform, hostname, uptime and, when a sensor
// is readable, the first non-zero temperature
func (s *SystemCollector) CollectSystemInfo(ctx context.Context) (*models.SystemInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	physical, err := cpu.CountsWithContext(ctx, false)
	if err != nil {
		s.log.Warn("could not get physical core count", zap.Error(err))
	}

	return &models.SystemInfo{
		Platform:     platformName(info.OS),
		Hostname:     info.Hostname,
		Uptime:       time.Duration(info.Uptime) * time.Second,
		TemperatureC: s.temperature(ctx),
		CPUCount:     physical,
	}, nil
}

func (s *SystemCollector) temperature(ctx context.Context) *float64 {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		// gopsutil reports per-sensor read failures as warnings next to
		// whatever it did manage to read.
		s.log.Debug("temperature sensors incomplete", zap.Error(err))
	}
	return firstTemperature(temps)
}

func firstTemperature(temps []host.TemperatureStat) *float64 {
	for _, t := range temps {
		if t.Temperature != 0 {
			v := t.Temperature
			return &v
		}
	}
	return nil
}

// platformName turns a GOOS-style name into a display name ("linux" -> "Linux").
func platformName(goos string) string {
	switch goos {
	case "":
		return "Unknown"
	case "darwin":
		return "Darwin"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}

// CollectStatus samples CPU, memory and host info for the general status screen
func (s *SystemCollector) CollectStatus(ctx context.Context) (*models.StatusSnapshot, error) {
	cpuStats, err := s.CollectCPU(ctx)
	if err != nil {
		return nil, err
	}

	ramStats, err := s.CollectRAM(ctx)
	if err != nil {
		return nil, err
	}

	sysInfo, err := s.CollectSystemInfo(ctx)
	if err != nil {
		return nil, err
	}

	return &models.StatusSnapshot{
		CPU:    cpuStats,
		RAM:    ramStats,
		System: sysInfo,
	}, nil
}
