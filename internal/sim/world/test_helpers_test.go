package world

import (
	"testing"

	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/scenario"
)

type auditSink struct{ entries []AuditEntry }

func (s *auditSink) WriteAudit(e AuditEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

type tickSink struct{ entries []TickLogEntry }

func (s *tickSink) WriteTick(e TickLogEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func testCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

func testConfig() WorldConfig {
	return WorldConfig{
		ID:                "test",
		TickRateHz:        20,
		Seed:              1,
		BoundaryR:         64,
		PlacementStrategy: "heading",
		CargoMaxItems:     2971,
		ExplosiveFuseMs:   4000,
		FollowerMaxSpeed:  8,
	}
}

func newTestWorld(t *testing.T, cfg WorldConfig) (*World, *auditSink) {
	t.Helper()
	w, err := New(cfg, testCatalogs(t))
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	audit := &auditSink{}
	w.SetAuditLogger(audit)
	return w, audit
}

func setBlock(t *testing.T, w *World, pos Vec3i, name string) {
	t.Helper()
	b, err := w.catalogs.BlockID(name)
	if err != nil {
		t.Fatalf("block %s: %v", name, err)
	}
	w.grid.SetBlock(pos, b)
}

func heading(x, y, z float32) *[3]float32 {
	return &[3]float32{x, y, z}
}

func spawn(t *testing.T, w *World, spec scenario.VehicleSpec) string {
	t.Helper()
	id, err := w.SpawnNow(spec)
	if err != nil {
		t.Fatalf("spawn %s: %v", spec.ID, err)
	}
	return id
}
