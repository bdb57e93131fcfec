package models

import "time"

// SensorReading is one entry decoded from the HWiNFO sensor buffer.
// The id is assigned by HWiNFO and may shift between its own sessions,
// so consumers should match on Label.
type SensorReading struct {
	ID     int    `json:"id"`
	Color  string `json:"color"`
	Label  string `json:"label"`
	Sensor string `json:"sensor"`
	Value  string `json:"value"`
	Raw    string `json:"valueraw"`
}

// SensorBatch is the HWiNFO source's contribution to one tick. Skipped
// counts entries dropped by the defensive decoder; Issue carries a
// one-line description of what was wrong with the buffer, if anything.
type SensorBatch struct {
	Readings []SensorReading
	Skipped  int
	Issue    string
}

// SystemStats holds the generic OS metrics for one tick. Optional
// fields are nil when the host does not expose them.
type SystemStats struct {
	CPUPercent    float64
	CPUTemp       *float64
	MemoryPercent float64
	MemoryUsedGB  float64
	Disks         map[string]string // "c_disk" -> "120.0 GB/500.0 GB"
}

// GPUStats holds discrete-GPU metrics. All fields are nil when no
// supported GPU is present; zero is never fabricated.
type GPUStats struct {
	Usage       *float64
	VRAMPercent *float64
	VRAMUsedGB  *float64
	Temp        *float64
}

// NetCounters carries cumulative interface byte counters. The rate
// tracker turns these into per-second speeds at merge time.
type NetCounters struct {
	BytesSent uint64
	BytesRecv uint64
	SampledAt time.Time
}

// LatencyStats holds the optional ICMP probe result.
type LatencyStats struct {
	PingMillis float64
}

// Partial is one source's contribution to a snapshot merge. Each source
// family fills exactly one field; the scheduler combines the non-nil
// parts into a Snapshot.
type Partial struct {
	System  *SystemStats
	GPU     *GPUStats
	Net     *NetCounters
	Latency *LatencyStats
	Sensors *SensorBatch
}

// BasicStats is the merged "psutil" section of a snapshot.
type BasicStats struct {
	CPU           float64
	CPUTemp       *float64
	Memory        float64
	MemoryGB      float64
	GPUUsage      *float64
	VRAMUsage     *float64
	VRAMGB        *float64
	GPUTemp       *float64
	UploadSpeed   *float64 // kilobits/s; nil until a rate baseline exists
	DownloadSpeed *float64
	PingMillis    *float64
	Disks         map[string]string
}

// Snapshot is one immutable, fully merged collection result. It is
// built once per tick and never mutated after publication, so the store
// can hand the same pointer to any number of readers.
type Snapshot struct {
	CapturedAt float64 // seconds since epoch, fractional
	Basic      *BasicStats
	Sensors    []SensorReading
	// SensorsAvailable distinguishes "HWiNFO reported zero entries"
	// from "HWiNFO was disabled or unreadable".
	SensorsAvailable bool
	// Degraded is set when every enabled source failed this tick.
	Degraded bool
}
