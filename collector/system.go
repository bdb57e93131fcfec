package collector

import (
	"context"
	"fmt"
	"math"
	"strings"

	"perfmon-agent/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const gib = 1024 * 1024 * 1024

// SystemSource gathers CPU, memory, disk and temperature metrics.
type SystemSource struct{}

func NewSystemSource() *SystemSource { return &SystemSource{} }

func (s *SystemSource) Name() string { return "system" }

func (s *SystemSource) Sample(ctx context.Context) (models.Partial, error) {
	stats := &models.SystemStats{
		Disks: make(map[string]string),
	}

	// Percent with interval 0 rates against the previous call, so the
	// tick never sleeps inside gopsutil.
	percent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return models.Partial{}, Transient(s.Name(), fmt.Errorf("cpu percent: %w", err))
	}
	if len(percent) > 0 {
		stats.CPUPercent = round1(percent[0])
	}

	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return models.Partial{}, Transient(s.Name(), fmt.Errorf("virtual memory: %w", err))
	}
	stats.MemoryPercent = round1(memInfo.UsedPercent)
	stats.MemoryUsedGB = round1(float64(memInfo.Used) / gib)

	s.collectDisks(ctx, stats)

	if temp, ok := cpuTemperature(ctx); ok {
		t := round1(temp)
		stats.CPUTemp = &t
	}

	return models.Partial{System: stats}, nil
}

// collectDisks fills per-partition usage strings. A partition we cannot
// stat (permissions, detached media) is skipped, matching the behavior
// of the original monitor.
func (s *SystemSource) collectDisks(ctx context.Context, stats *models.SystemStats) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return
	}
	for _, part := range partitions {
		if part.Fstype == "" || hasOpt(part.Opts, "cdrom") {
			continue
		}
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			continue
		}
		stats.Disks[driveKey(part.Device)] = formatDiskUsage(usage.Used, usage.Total)
	}
}

// driveKey turns a device path into the wire key for its usage string:
// "C:" becomes "c_disk", "/dev/sda1" becomes "sda1_disk".
func driveKey(device string) string {
	if len(device) >= 2 && device[1] == ':' {
		return strings.ToLower(device[:1]) + "_disk"
	}
	name := strings.TrimPrefix(device, "/dev/")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		name = "root"
	}
	return strings.ToLower(name) + "_disk"
}

func formatDiskUsage(used, total uint64) string {
	return fmt.Sprintf("%.1f GB/%.1f GB", float64(used)/gib, float64(total)/gib)
}

// cpuTemperature picks the package/core sensor out of whatever the host
// exposes. Many machines expose none; that is not an error.
func cpuTemperature(ctx context.Context) (float64, bool) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil || len(temps) == 0 {
		return 0, false
	}
	for _, t := range temps {
		key := strings.ToLower(t.SensorKey)
		if t.Temperature <= 0 {
			continue
		}
		if strings.Contains(key, "coretemp") || strings.Contains(key, "k10temp") ||
			strings.Contains(key, "cpu") || strings.Contains(key, "package") {
			return t.Temperature, true
		}
	}
	return 0, false
}

func hasOpt(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
