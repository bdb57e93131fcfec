package collector

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"perfmon-agent/models"
)

// GPUSource probes a discrete NVIDIA GPU through nvidia-smi. On hosts
// without the tool the first probe marks the source unavailable for the
// rest of the process lifetime instead of re-spawning a doomed process
// every second.
type GPUSource struct {
	unavailable bool
}

func NewGPUSource() *GPUSource { return &GPUSource{} }

func (s *GPUSource) Name() string { return "gpu" }

func (s *GPUSource) Sample(ctx context.Context) (models.Partial, error) {
	if s.unavailable {
		return models.Partial{}, Unavailable(s.Name(), nil)
	}

	out, err := exec.CommandContext(ctx, "nvidia-smi",
		"--query-gpu=utilization.gpu,memory.used,memory.total,temperature.gpu",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		if ctx.Err() != nil {
			return models.Partial{}, &SourceError{Source: s.Name(), Kind: KindTimeout, Err: ctx.Err()}
		}
		s.unavailable = true
		return models.Partial{}, Unavailable(s.Name(), err)
	}

	stats, err := parseSMIOutput(string(out))
	if err != nil {
		return models.Partial{}, &SourceError{Source: s.Name(), Kind: KindDecode, Err: err}
	}
	return models.Partial{GPU: stats}, nil
}

// parseSMIOutput reads one CSV row per GPU and keeps the busiest one,
// which on multi-GPU machines is the card actually driving the load.
func parseSMIOutput(out string) (*models.GPUStats, error) {
	var best *models.GPUStats
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("unexpected nvidia-smi row %q", line)
		}

		util, err := smiFloat(fields[0])
		if err != nil {
			return nil, err
		}
		usedMiB, err := smiFloat(fields[1])
		if err != nil {
			return nil, err
		}
		totalMiB, err := smiFloat(fields[2])
		if err != nil {
			return nil, err
		}
		temp, err := smiFloat(fields[3])
		if err != nil {
			return nil, err
		}

		usage := round1(util)
		usedGB := round1(usedMiB / 1024)
		t := round1(temp)
		stats := &models.GPUStats{Usage: &usage, VRAMUsedGB: &usedGB, Temp: &t}
		if totalMiB > 0 {
			pct := round1(usedMiB / totalMiB * 100)
			stats.VRAMPercent = &pct
		}

		if best == nil || *stats.Usage > *best.Usage {
			best = stats
		}
	}
	if best == nil {
		return nil, fmt.Errorf("nvidia-smi produced no rows")
	}
	return best, nil
}

func smiFloat(field string) (float64, error) {
	field = strings.TrimSpace(field)
	// nvidia-smi reports "[N/A]" for sensors a card lacks.
	if strings.HasPrefix(field, "[") {
		return 0, nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("bad nvidia-smi field %q: %w", field, err)
	}
	return v, nil
}
