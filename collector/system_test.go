package collector

import "testing"

func TestDriveKey(t *testing.T) {
	cases := []struct {
		device string
		want   string
	}{
		{"C:", "c_disk"},
		{"D:\\", "d_disk"},
		{"/dev/sda1", "sda1_disk"},
		{"/dev/mapper/vg-root", "mapper_vg-root_disk"},
		{"", "root_disk"},
	}
	for _, c := range cases {
		if got := driveKey(c.device); got != c.want {
			t.Errorf("driveKey(%q) = %q, want %q", c.device, got, c.want)
		}
	}
}

func TestFormatDiskUsage(t *testing.T) {
	const g = uint64(gib)
	got := formatDiskUsage(120*g, 500*g)
	if got != "120.0 GB/500.0 GB" {
		t.Fatalf("formatDiskUsage = %q", got)
	}

	// Fractional sizes round to one decimal.
	got = formatDiskUsage(g+g/2, 2*g)
	if got != "1.5 GB/2.0 GB" {
		t.Fatalf("formatDiskUsage = %q", got)
	}
}

func TestRound1(t *testing.T) {
	if got := round1(55.14999); got != 55.1 {
		t.Fatalf("round1 = %v", got)
	}
	if got := round1(55.15001); got != 55.2 {
		t.Fatalf("round1 = %v", got)
	}
}

func TestParseSMIOutputPicksBusiestGPU(t *testing.T) {
	out := "12, 512, 8192, 40\n87, 6144, 12288, 71\n"
	stats, err := parseSMIOutput(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *stats.Usage != 87.0 {
		t.Fatalf("expected busiest gpu, got usage %v", *stats.Usage)
	}
	if *stats.VRAMUsedGB != 6.0 {
		t.Fatalf("expected 6.0 GB vram used, got %v", *stats.VRAMUsedGB)
	}
	if *stats.VRAMPercent != 50.0 {
		t.Fatalf("expected 50%% vram, got %v", *stats.VRAMPercent)
	}
	if *stats.Temp != 71.0 {
		t.Fatalf("expected temp 71, got %v", *stats.Temp)
	}
}

func TestParseSMIOutputRejectsGarbage(t *testing.T) {
	if _, err := parseSMIOutput("not,a,gpu"); err == nil {
		t.Fatalf("expected error on malformed row")
	}
	if _, err := parseSMIOutput(""); err == nil {
		t.Fatalf("expected error on empty output")
	}
}
