package models

import "time"

// Payload converts a Snapshot into the wire shape served on
// GET /performance. Optional metrics come out as JSON null, never as a
// fabricated zero; the hwinfo field is always present, either as the
// decoded list or as the explicit unavailable marker.
func (s *Snapshot) Payload() map[string]any {
	out := map[string]any{
		"timestamp": s.CapturedAt,
		"hwinfo":    sensorPayload(s.Sensors, s.SensorsAvailable),
	}
	if s.Basic != nil {
		out["psutil"] = s.Basic.payload()
	}
	if s.Degraded {
		out["degraded"] = true
	}
	return out
}

// DefaultPayload is served before the first tick has published
// anything, mirroring the shape of a real response.
func DefaultPayload(now time.Time) map[string]any {
	return map[string]any{
		"timestamp": float64(now.UnixNano()) / 1e9,
		"hwinfo":    map[string]any{"available": false},
		"psutil": map[string]any{
			"cpu":            0.0,
			"memory":         0.0,
			"upload_speed":   0.0,
			"download_speed": 0.0,
		},
	}
}

func sensorPayload(readings []SensorReading, available bool) any {
	if !available {
		return map[string]any{"available": false}
	}
	if readings == nil {
		readings = []SensorReading{}
	}
	return readings
}

func (b *BasicStats) payload() map[string]any {
	out := map[string]any{
		"cpu":            b.CPU,
		"cpu_temp":       optional(b.CPUTemp),
		"memory":         b.Memory,
		"memory_gb":      b.MemoryGB,
		"gpu_usage":      optional(b.GPUUsage),
		"vram_usage":     optional(b.VRAMUsage),
		"vram_gb":        optional(b.VRAMGB),
		"gpu_temp":       optional(b.GPUTemp),
		"upload_speed":   optional(b.UploadSpeed),
		"download_speed": optional(b.DownloadSpeed),
	}
	if b.PingMillis != nil {
		out["ping_ms"] = *b.PingMillis
	}
	for key, usage := range b.Disks {
		out[key] = usage
	}
	return out
}

func optional(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
