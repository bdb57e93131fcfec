package hwinfo

import (
	"context"
	"errors"
	"testing"

	"perfmon-agent/collector"
)

type fakeReader struct {
	machine     []byte
	machineErr  error
	user        []byte
	userErr     error
	userCalled  bool
	machineRead bool
}

func (f *fakeReader) ReadMachine() ([]byte, error) {
	f.machineRead = true
	return f.machine, f.machineErr
}

func (f *fakeReader) ReadUser() ([]byte, error) {
	f.userCalled = true
	return f.user, f.userErr
}

func sourceErrKind(t *testing.T, err error) collector.ErrorKind {
	t.Helper()
	var srcErr *collector.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected a SourceError, got %T: %v", err, err)
	}
	return srcErr.Kind
}

func TestSampleReadsMachineHiveFirst(t *testing.T) {
	reader := &fakeReader{
		machine: makeBuffer(t, 1, minStride, entrySpec{id: 4, label: "CPU Package"}),
	}
	src := NewSourceWithReader(reader, true)

	partial, err := src.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if reader.userCalled {
		t.Fatalf("user hive must not be consulted when the machine hive works")
	}
	if partial.Sensors == nil || len(partial.Sensors.Readings) != 1 {
		t.Fatalf("expected one reading, got %+v", partial.Sensors)
	}
	if partial.Sensors.Readings[0].Label != "CPU Package" {
		t.Fatalf("wrong reading: %+v", partial.Sensors.Readings[0])
	}
}

func TestSampleFallsBackToUserHive(t *testing.T) {
	reader := &fakeReader{
		machineErr: ErrNotPresent,
		user:       makeBuffer(t, 1, minStride, entrySpec{id: 7, label: "Vcore"}),
	}
	src := NewSourceWithReader(reader, true)

	partial, err := src.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if !reader.userCalled {
		t.Fatalf("expected the user hive to be consulted")
	}
	if partial.Sensors.Readings[0].Label != "Vcore" {
		t.Fatalf("wrong reading from fallback: %+v", partial.Sensors.Readings)
	}
}

func TestSampleFallbackDisabledNeverTouchesUserHive(t *testing.T) {
	reader := &fakeReader{machineErr: ErrNotPresent}
	src := NewSourceWithReader(reader, false)

	_, err := src.Sample(context.Background())
	if err == nil {
		t.Fatalf("expected unavailability")
	}
	if reader.userCalled {
		t.Fatalf("fallback disabled must not read the user hive")
	}
	if kind := sourceErrKind(t, err); kind != collector.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", kind)
	}
}

func TestSampleBothHivesAbsent(t *testing.T) {
	reader := &fakeReader{machineErr: ErrNotPresent, userErr: ErrNotPresent}
	src := NewSourceWithReader(reader, true)

	_, err := src.Sample(context.Background())
	if kind := sourceErrKind(t, err); kind != collector.KindUnavailable {
		t.Fatalf("expected unavailable, got %v", kind)
	}
}

func TestSampleSIDResolutionFailureIsUnavailable(t *testing.T) {
	reader := &fakeReader{
		machineErr: ErrNotPresent,
		userErr:    errors.New("resolving user SID: access denied"),
	}
	src := NewSourceWithReader(reader, true)

	_, err := src.Sample(context.Background())
	if kind := sourceErrKind(t, err); kind != collector.KindUnavailable {
		t.Fatalf("a SID failure is unavailability, not fatal; got %v", kind)
	}
}

func TestSampleMalformedHeaderIsDecodeError(t *testing.T) {
	reader := &fakeReader{machine: []byte{0xDE, 0xAD}}
	src := NewSourceWithReader(reader, true)

	_, err := src.Sample(context.Background())
	if kind := sourceErrKind(t, err); kind != collector.KindDecode {
		t.Fatalf("expected decode error, got %v", kind)
	}
}

func TestSampleZeroEntriesIsAvailable(t *testing.T) {
	reader := &fakeReader{machine: makeBuffer(t, 0, minStride)}
	src := NewSourceWithReader(reader, true)

	partial, err := src.Sample(context.Background())
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	// Zero decoded entries is a real (if odd) result, distinct from
	// the source being unavailable.
	if partial.Sensors == nil {
		t.Fatalf("expected an empty batch, not absence")
	}
	if len(partial.Sensors.Readings) != 0 {
		t.Fatalf("expected zero readings")
	}
}
