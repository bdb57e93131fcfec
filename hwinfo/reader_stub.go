//go:build !windows

package hwinfo

// The HWiNFO buffer only exists in the Windows registry; everywhere
// else the source is permanently unavailable.
type stubReader struct{}

func newPlatformReader() BufferReader { return stubReader{} }

func (stubReader) ReadMachine() ([]byte, error) { return nil, ErrNotPresent }
func (stubReader) ReadUser() ([]byte, error)    { return nil, ErrNotPresent }
