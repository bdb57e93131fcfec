package collector

import (
	"context"
	"fmt"
	"time"

	"perfmon-agent/models"

	gopsnet "github.com/shirou/gopsutil/v3/net"
)

// NetworkSource returns cumulative interface byte counters aggregated
// across all interfaces. The scheduler's rate tracker turns these into
// per-second speeds; this source holds no state of its own.
type NetworkSource struct{}

func NewNetworkSource() *NetworkSource { return &NetworkSource{} }

func (s *NetworkSource) Name() string { return "network" }

func (s *NetworkSource) Sample(ctx context.Context) (models.Partial, error) {
	counters, err := gopsnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return models.Partial{}, Transient(s.Name(), fmt.Errorf("io counters: %w", err))
	}
	if len(counters) == 0 {
		return models.Partial{}, Unavailable(s.Name(), nil)
	}
	return models.Partial{Net: &models.NetCounters{
		BytesSent: counters[0].BytesSent,
		BytesRecv: counters[0].BytesRecv,
		SampledAt: time.Now(),
	}}, nil
}
