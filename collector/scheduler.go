package collector

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"perfmon-agent/models"
	"perfmon-agent/store"
)

// Rate tracker keys for the network counters.
const (
	counterBytesSent = "net_bytes_sent"
	counterBytesRecv = "net_bytes_recv"
)

// Scheduler drives the collection loop: every interval it samples all
// enabled sources in parallel, merges their partial records with the
// rate tracker's derived speeds, and publishes one immutable snapshot.
// It is the only writer of the store and the sole owner of the tracker.
type Scheduler struct {
	sources  []Source
	store    *store.Store
	rates    *RateTracker
	metrics  *Metrics
	interval time.Duration
	timeout  time.Duration
}

func NewScheduler(sources []Source, st *store.Store, metrics *Metrics, interval time.Duration) *Scheduler {
	return &Scheduler{
		sources:  sources,
		store:    st,
		rates:    NewRateTracker(),
		metrics:  metrics,
		interval: interval,
		// Every source call must come back before the next tick wants
		// to start.
		timeout: interval * 8 / 10,
	}
}

// Run blocks until ctx is cancelled. The first tick fires immediately;
// a tick that overruns the interval just delays the next one, the
// ticker never runs two passes at once.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Println("Collection loop stopped")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()

	partials := make([]models.Partial, len(s.sources))
	failures := make([]error, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			partials[i], failures[i] = sampleBounded(ctx, src, s.timeout)
		}(i, src)
	}
	wg.Wait()

	s.store.Publish(s.merge(start, partials, failures))
	s.metrics.TickDuration.Observe(time.Since(start).Seconds())
}

// merge combines the tick's partial records into one snapshot. A failed
// source contributes nothing; if every source failed the snapshot is
// still published, timestamped and marked degraded, so readers can tell
// staleness from silence.
func (s *Scheduler) merge(now time.Time, partials []models.Partial, failures []error) *models.Snapshot {
	snap := &models.Snapshot{CapturedAt: float64(now.UnixNano()) / 1e9}

	succeeded := 0
	var basic *models.BasicStats
	ensureBasic := func() *models.BasicStats {
		if basic == nil {
			basic = &models.BasicStats{}
		}
		return basic
	}

	for i, p := range partials {
		if failures[i] != nil {
			s.reportFailure(s.sources[i].Name(), failures[i])
			continue
		}
		succeeded++

		if p.System != nil {
			b := ensureBasic()
			b.CPU = p.System.CPUPercent
			b.CPUTemp = p.System.CPUTemp
			b.Memory = p.System.MemoryPercent
			b.MemoryGB = p.System.MemoryUsedGB
			b.Disks = p.System.Disks
		}
		if p.GPU != nil {
			b := ensureBasic()
			b.GPUUsage = p.GPU.Usage
			b.VRAMUsage = p.GPU.VRAMPercent
			b.VRAMGB = p.GPU.VRAMUsedGB
			b.GPUTemp = p.GPU.Temp
		}
		if p.Net != nil {
			b := ensureBasic()
			b.UploadSpeed = s.netRate(counterBytesSent, p.Net.BytesSent, p.Net.SampledAt)
			b.DownloadSpeed = s.netRate(counterBytesRecv, p.Net.BytesRecv, p.Net.SampledAt)
		}
		if p.Latency != nil {
			ms := p.Latency.PingMillis
			ensureBasic().PingMillis = &ms
		}
		if p.Sensors != nil {
			snap.Sensors = p.Sensors.Readings
			snap.SensorsAvailable = true
			if p.Sensors.Skipped > 0 {
				log.Printf("Sensor buffer decode skipped %d entries: %s",
					p.Sensors.Skipped, p.Sensors.Issue)
				s.metrics.DecodeIssues.Inc()
			}
		}
	}

	snap.Basic = basic
	if succeeded == 0 && len(s.sources) > 0 {
		snap.Degraded = true
	}
	return snap
}

// netRate converts a cumulative byte counter into kilobits per second,
// rounded to one decimal. Nil until the second sample of the counter.
func (s *Scheduler) netRate(key string, cumulative uint64, at time.Time) *float64 {
	bytesPerSec, ok := s.rates.Update(key, float64(cumulative), at)
	if !ok {
		return nil
	}
	kbit := round1(bytesPerSec * 8 / 1000)
	return &kbit
}

func (s *Scheduler) reportFailure(source string, err error) {
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		srcErr = Transient(source, err)
	}

	// An absent facility is expected on most machines; do not spam the
	// log every second for it.
	if srcErr.Kind != KindUnavailable {
		log.Printf("Source %s failed: %v", source, err)
	}
	s.metrics.SourceErrors.WithLabelValues(source, srcErr.Kind.String()).Inc()
}
