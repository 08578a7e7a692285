package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ShippedConfig(t *testing.T) {
	tu, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.TickRateHz != 20 || tu.Rails.CargoMaxItems != 2971 || tu.Rails.ExplosiveFuseMs != 4000 {
		t.Fatalf("tuning=%+v", tu)
	}
	if tu.Rails.PlacementStrategy != "heading" {
		t.Fatalf("placement_strategy=%q", tu.Rails.PlacementStrategy)
	}
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("tick_rate_hz: 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.TickRateHz != 5 {
		t.Fatalf("tick_rate_hz=%d, want 5", tu.TickRateHz)
	}
	d := Defaults()
	if tu.SnapshotEveryTicks != d.SnapshotEveryTicks || tu.Rails.PlacementStrategy != "heading" {
		t.Fatalf("defaults not filled: %+v", tu)
	}
}

func TestLoad_RejectsUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("rails:\n  placement_strategy: random\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error")
	}
}
