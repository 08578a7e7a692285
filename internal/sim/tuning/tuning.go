package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz         int   `yaml:"tick_rate_hz"`
	Seed               int64 `yaml:"seed"`
	GroundY            int   `yaml:"ground_y"`
	WorldBoundaryR     int   `yaml:"world_boundary_r"`
	SnapshotEveryTicks int   `yaml:"snapshot_every_ticks"`

	Rails Rails `yaml:"rails"`
}

type Rails struct {
	// PlacementStrategy is "heading" (connection-based as fallback) or
	// "connection".
	PlacementStrategy string  `yaml:"placement_strategy"`
	CargoMaxItems     int     `yaml:"cargo_max_items"`
	ExplosiveFuseMs   int64   `yaml:"explosive_fuse_ms"`
	FollowerMaxSpeed  float32 `yaml:"follower_max_speed"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         20,
		GroundY:            0,
		WorldBoundaryR:     4000,
		SnapshotEveryTicks: 3000,
		Rails: Rails{
			PlacementStrategy: "heading",
			CargoMaxItems:     2971,
			ExplosiveFuseMs:   4000,
			FollowerMaxSpeed:  8,
		},
	}
}

// Fill copies defaults into every zero field of t.
func (t *Tuning) Fill() {
	d := Defaults()
	if t.ProtocolVersion == "" {
		t.ProtocolVersion = d.ProtocolVersion
	}
	if t.TickRateHz <= 0 {
		t.TickRateHz = d.TickRateHz
	}
	if t.WorldBoundaryR <= 0 {
		t.WorldBoundaryR = d.WorldBoundaryR
	}
	if t.SnapshotEveryTicks <= 0 {
		t.SnapshotEveryTicks = d.SnapshotEveryTicks
	}
	if t.Rails.PlacementStrategy == "" {
		t.Rails.PlacementStrategy = d.Rails.PlacementStrategy
	}
	if t.Rails.CargoMaxItems <= 0 {
		t.Rails.CargoMaxItems = d.Rails.CargoMaxItems
	}
	if t.Rails.ExplosiveFuseMs <= 0 {
		t.Rails.ExplosiveFuseMs = d.Rails.ExplosiveFuseMs
	}
	if t.Rails.FollowerMaxSpeed <= 0 {
		t.Rails.FollowerMaxSpeed = d.Rails.FollowerMaxSpeed
	}
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tuning.yaml: tick_rate_hz %d", t.TickRateHz)
	}
	switch t.Rails.PlacementStrategy {
	case "heading", "connection":
	default:
		return fmt.Errorf("tuning.yaml: rails.placement_strategy %q", t.Rails.PlacementStrategy)
	}
	return nil
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Fill()
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}
