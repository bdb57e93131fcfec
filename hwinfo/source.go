package hwinfo

import (
	"context"
	"errors"

	"perfmon-agent/collector"
	"perfmon-agent/models"
)

// ErrNotPresent means the sensor buffer does not exist at the queried
// registry location. Expected whenever HWiNFO is not running.
var ErrNotPresent = errors.New("sensor buffer not present")

// BufferReader fetches the raw sensor buffer from one of the two
// registry scopes. The platform implementation lives behind build tags;
// tests substitute their own.
type BufferReader interface {
	ReadMachine() ([]byte, error)
	ReadUser() ([]byte, error)
}

// Source adapts the HWiNFO registry buffer into sensor readings. The
// machine hive is authoritative; the current user's hive is consulted
// only when the configuration allows the fallback.
type Source struct {
	reader            BufferReader
	allowUserFallback bool
}

func NewSource(allowUserFallback bool) *Source {
	return &Source{reader: newPlatformReader(), allowUserFallback: allowUserFallback}
}

// NewSourceWithReader wires a custom reader; used by tests.
func NewSourceWithReader(r BufferReader, allowUserFallback bool) *Source {
	return &Source{reader: r, allowUserFallback: allowUserFallback}
}

func (s *Source) Name() string { return "hwinfo" }

func (s *Source) Sample(ctx context.Context) (models.Partial, error) {
	buf, err := s.reader.ReadMachine()
	if err != nil {
		if !s.allowUserFallback {
			return models.Partial{}, collector.Unavailable(s.Name(), err)
		}
		// SID resolution failures surface here too; either way the
		// source is unavailable this tick, not broken.
		buf, err = s.reader.ReadUser()
		if err != nil {
			return models.Partial{}, collector.Unavailable(s.Name(), err)
		}
	}

	batch, err := Decode(buf)
	if err != nil {
		return models.Partial{}, &collector.SourceError{
			Source: s.Name(),
			Kind:   collector.KindDecode,
			Err:    err,
		}
	}
	return models.Partial{Sensors: &batch}, nil
}
