package store

import (
	"sync"
	"testing"

	"perfmon-agent/models"
)

func TestReadBeforeFirstPublish(t *testing.T) {
	st := New()
	if snap := st.Read(); snap != nil {
		t.Fatalf("expected nil before first publish, got %+v", snap)
	}
}

func TestPublishReplacesSnapshot(t *testing.T) {
	st := New()

	first := &models.Snapshot{CapturedAt: 1}
	second := &models.Snapshot{CapturedAt: 2}

	st.Publish(first)
	if st.Read() != first {
		t.Fatalf("expected first snapshot")
	}
	st.Publish(second)
	if st.Read() != second {
		t.Fatalf("expected second snapshot")
	}
}

// Readers must always observe exactly one published snapshot, never a
// mix. Publishing is a pointer swap, so it suffices that a read returns
// a pointer whose fields are internally consistent.
func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	st := New()
	st.Publish(&models.Snapshot{CapturedAt: 0, Degraded: false})

	stopWriter := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for i := 1; ; i++ {
			select {
			case <-stopWriter:
				return
			default:
			}
			// Each snapshot encodes its sequence twice; a torn read
			// would disagree with itself.
			st.Publish(&models.Snapshot{
				CapturedAt: float64(i),
				Basic:      &models.BasicStats{CPU: float64(i)},
			})
		}
	}()

	var readers sync.WaitGroup
	for r := 0; r < 8; r++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 10000; j++ {
				snap := st.Read()
				if snap.CapturedAt == 0 {
					continue
				}
				if snap.Basic == nil || snap.Basic.CPU != snap.CapturedAt {
					t.Errorf("torn snapshot: capturedAt=%v basic=%+v", snap.CapturedAt, snap.Basic)
					return
				}
			}
		}()
	}

	readers.Wait()
	close(stopWriter)
	<-writerDone
}
