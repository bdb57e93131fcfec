// Package hwinfo reads the HWiNFO sensor buffer out of the Windows
// registry and decodes it into sensor readings. The binary layout is a
// best-effort reconstruction of the vendor format: a small header
// declaring the entry count and stride, followed by fixed-size entries.
package hwinfo

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"perfmon-agent/models"
)

// Buffer layout, little-endian. The stride in the header is honored
// when it exceeds the fixed field span, so a vendor build that widens
// the entry tail still decodes.
const (
	headerSize = 8 // count uint32, stride uint32

	offID     = 0
	offColor  = 4
	offLabel  = 8
	offSensor = 72
	offValue  = 136
	offRaw    = 152

	labelLen = 64
	valueLen = 16

	minStride = 168
)

// Decode turns a raw sensor buffer into readings. It is defensive: a
// count field that overruns the buffer clamps to the entries actually
// contained, and an entry with undecodable text is skipped on its own.
// Only an unreadable header fails the whole decode.
func Decode(buf []byte) (models.SensorBatch, error) {
	if len(buf) < headerSize {
		return models.SensorBatch{}, fmt.Errorf("buffer too short for header: %d bytes", len(buf))
	}

	count := int(binary.LittleEndian.Uint32(buf[0:4]))
	stride := int(binary.LittleEndian.Uint32(buf[4:8]))
	if stride < minStride {
		return models.SensorBatch{}, fmt.Errorf("entry stride %d below minimum %d", stride, minStride)
	}

	batch := models.SensorBatch{}

	capacity := (len(buf) - headerSize) / stride
	usable := count
	if usable > capacity {
		batch.Skipped += usable - capacity
		batch.Issue = fmt.Sprintf("header declares %d entries, buffer holds %d", count, capacity)
		usable = capacity
	}

	batch.Readings = make([]models.SensorReading, 0, usable)
	for i := 0; i < usable; i++ {
		entry := buf[headerSize+i*stride:]
		reading, ok := decodeEntry(entry)
		if !ok {
			batch.Skipped++
			if batch.Issue == "" {
				batch.Issue = fmt.Sprintf("entry %d has undecodable text", i)
			}
			continue
		}
		batch.Readings = append(batch.Readings, reading)
	}
	return batch, nil
}

func decodeEntry(entry []byte) (models.SensorReading, bool) {
	label, ok := fixedString(entry[offLabel:], labelLen)
	if !ok {
		return models.SensorReading{}, false
	}
	sensor, ok := fixedString(entry[offSensor:], labelLen)
	if !ok {
		return models.SensorReading{}, false
	}
	value, ok := fixedString(entry[offValue:], valueLen)
	if !ok {
		return models.SensorReading{}, false
	}
	raw, ok := fixedString(entry[offRaw:], valueLen)
	if !ok {
		return models.SensorReading{}, false
	}

	return models.SensorReading{
		ID:     int(binary.LittleEndian.Uint32(entry[offID:])),
		Color:  fmt.Sprintf("#%06X", binary.LittleEndian.Uint32(entry[offColor:])&0xFFFFFF),
		Label:  label,
		Sensor: sensor,
		Value:  value,
		Raw:    raw,
	}, true
}

// fixedString reads a NUL-padded byte string of at most n bytes.
// Invalid UTF-8 fails the entry rather than shipping mojibake.
func fixedString(b []byte, n int) (string, bool) {
	if len(b) < n {
		return "", false
	}
	b = b[:n]
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}
