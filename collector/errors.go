package collector

import "fmt"

// ErrorKind classifies why a source contributed nothing this tick.
type ErrorKind int

const (
	// KindUnavailable means the source's backing facility is absent.
	// Expected on many machines; not logged as an error.
	KindUnavailable ErrorKind = iota
	// KindTimeout means the source exceeded its per-call window.
	KindTimeout
	// KindDecode means the source produced structurally malformed data.
	KindDecode
	// KindTransient means a recoverable OS-call failure; the next tick
	// retries naturally.
	KindTransient
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindDecode:
		return "decode"
	default:
		return "transient"
	}
}

// SourceError is the only error type a source is allowed to return.
// It never propagates past the scheduler.
type SourceError struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Unavailable reports the source's backing facility as absent.
func Unavailable(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: KindUnavailable, Err: err}
}

// Transient reports a recoverable sampling failure.
func Transient(source string, err error) *SourceError {
	return &SourceError{Source: source, Kind: KindTransient, Err: err}
}
