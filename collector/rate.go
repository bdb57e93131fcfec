package collector

import (
	"log"
	"time"
)

// rateEpsilon floors the elapsed time between two samples so a clock
// irregularity cannot divide by zero or blow a rate up.
const rateEpsilon = time.Millisecond

type ratePoint struct {
	value float64
	at    time.Time
}

// RateTracker converts cumulative counters into per-second rates across
// irregular sampling intervals. It is owned by the scheduler and never
// persisted; every process start begins with no baseline.
type RateTracker struct {
	prev map[string]ratePoint
}

func NewRateTracker() *RateTracker {
	return &RateTracker{prev: make(map[string]ratePoint)}
}

// Update records (value, now) for key and returns the per-second rate
// since the previous observation. The first observation of a key yields
// ok=false: there is no baseline to rate against. A counter that moved
// backwards (adapter restart, wraparound) clamps to zero rather than
// reporting a negative rate.
func (t *RateTracker) Update(key string, value float64, now time.Time) (rate float64, ok bool) {
	last, seen := t.prev[key]
	t.prev[key] = ratePoint{value: value, at: now}
	if !seen {
		return 0, false
	}

	elapsed := now.Sub(last.at)
	if elapsed < rateEpsilon {
		log.Printf("Rate tracker: non-positive elapsed %v for %s, flooring", elapsed, key)
		elapsed = rateEpsilon
	}

	delta := value - last.value
	if delta < 0 {
		delta = 0
	}
	return delta / elapsed.Seconds(), true
}
