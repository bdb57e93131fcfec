//go:build windows

package hwinfo

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	sensorKeyPath   = `SOFTWARE\HWiNFO64\VSB`
	sensorValueName = "SensorValues"
)

type registryReader struct{}

func newPlatformReader() BufferReader { return registryReader{} }

func (registryReader) ReadMachine() ([]byte, error) {
	return readBuffer(registry.LOCAL_MACHINE, sensorKeyPath)
}

// ReadUser resolves the process token's user SID and reads the buffer
// from that user's hive under HKEY_USERS. When the agent runs as a
// service account the SID is the service's, the key will not exist,
// and the read degrades to ErrNotPresent.
func (registryReader) ReadUser() ([]byte, error) {
	sid, err := currentUserSID()
	if err != nil {
		return nil, fmt.Errorf("resolving user SID: %w", err)
	}
	return readBuffer(registry.USERS, sid+`\`+sensorKeyPath)
}

func readBuffer(root registry.Key, path string) ([]byte, error) {
	k, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil, ErrNotPresent
		}
		return nil, err
	}
	defer k.Close()

	buf, _, err := k.GetBinaryValue(sensorValueName)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil, ErrNotPresent
		}
		return nil, err
	}
	return buf, nil
}

func currentUserSID() (string, error) {
	user, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err != nil {
		return "", err
	}
	return user.User.Sid.String(), nil
}
