package collector

import (
	"context"
	"fmt"
	"time"

	"perfmon-agent/models"
)

// Source samples one external facility into a partial record. Sample
// must honor ctx and return a *SourceError on failure; it never panics
// into the scheduler. Implementations are read-only against the OS and
// keep any state private.
type Source interface {
	Name() string
	Sample(ctx context.Context) (models.Partial, error)
}

// sampleBounded runs one source under a deadline. A source that ignores
// cancellation and wedges leaks its goroutine until it returns, but the
// tick itself moves on.
func sampleBounded(ctx context.Context, src Source, timeout time.Duration) (models.Partial, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		partial models.Partial
		err     error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &SourceError{
					Source: src.Name(),
					Kind:   KindTransient,
					Err:    fmt.Errorf("panic: %v", r),
				}}
			}
		}()
		p, err := src.Sample(ctx)
		done <- result{partial: p, err: err}
	}()

	select {
	case r := <-done:
		return r.partial, r.err
	case <-ctx.Done():
		return models.Partial{}, &SourceError{
			Source: src.Name(),
			Kind:   KindTimeout,
			Err:    ctx.Err(),
		}
	}
}
