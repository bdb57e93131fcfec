package collector

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"perfmon-agent/models"

	probing "github.com/prometheus-community/pro-bing"
)

// LatencySource sends one ICMP echo per tick to a fixed target.
// Disabled by default; it is the only source that touches the network
// beyond reading local counters.
type LatencySource struct {
	target string
}

func NewLatencySource(target string) *LatencySource {
	return &LatencySource{target: target}
}

func (s *LatencySource) Name() string { return "latency" }

func (s *LatencySource) Sample(ctx context.Context) (models.Partial, error) {
	pinger := probing.New(s.target)
	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		pinger.Timeout = time.Until(deadline)
	}
	// Raw ICMP sockets; unprivileged UDP ping is not a thing on Windows.
	pinger.SetPrivileged(runtime.GOOS == "windows")

	if err := pinger.RunWithContext(ctx); err != nil {
		return models.Partial{}, Transient(s.Name(), fmt.Errorf("ping %s: %w", s.target, err))
	}
	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return models.Partial{}, Transient(s.Name(), fmt.Errorf("ping %s: no reply", s.target))
	}
	return models.Partial{Latency: &models.LatencyStats{
		PingMillis: round1(float64(stats.AvgRtt) / float64(time.Millisecond)),
	}}, nil
}
