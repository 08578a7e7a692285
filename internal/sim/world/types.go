package world

import (
	"railcraft.ai/internal/protocol"
	"railcraft.ai/internal/sim/scenario"
	"railcraft.ai/internal/sim/tuning"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

type Vec3i = modelpkg.Vec3i

type WorldConfig struct {
	ID                 string
	TickRateHz         int
	Seed               int64
	GroundY            int
	BoundaryR          int
	SnapshotEveryTicks int

	PlacementStrategy string
	CargoMaxItems     int
	ExplosiveFuseMs   int64
	FollowerMaxSpeed  float32
}

func ConfigFromTuning(id string, t tuning.Tuning) WorldConfig {
	return WorldConfig{
		ID:                 id,
		TickRateHz:         t.TickRateHz,
		Seed:               t.Seed,
		GroundY:            t.GroundY,
		BoundaryR:          t.WorldBoundaryR,
		SnapshotEveryTicks: t.SnapshotEveryTicks,
		PlacementStrategy:  t.Rails.PlacementStrategy,
		CargoMaxItems:      t.Rails.CargoMaxItems,
		ExplosiveFuseMs:    t.Rails.ExplosiveFuseMs,
		FollowerMaxSpeed:   t.Rails.FollowerMaxSpeed,
	}
}

type SpawnRequest struct {
	Spec scenario.VehicleSpec
	// Resp, when set, receives the result at the tick boundary.
	Resp chan SpawnResponse
}

type SpawnResponse struct {
	VehicleID string
	Err       error
}

// LoadItems puts items into a vehicle inventory at the next tick boundary.
type LoadItems struct {
	VehicleID string `json:"vehicle_id"`
	Item      string `json:"item"`
	Count     int    `json:"count"`
}

type ObserverJoinRequest struct {
	SessionID string
	Sub       protocol.SubscribeMsg
	TickOut   chan []byte
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type AuditLogger interface {
	WriteAudit(entry AuditEntry) error
}

// TickLogEntry records the inputs applied at one tick and the resulting state
// digest. Replaying the inputs from the same start state reproduces the digest.
type TickLogEntry struct {
	Tick       uint64                 `json:"tick"`
	Spawns     []scenario.VehicleSpec `json:"spawns,omitempty"`
	Loads      []LoadItems            `json:"loads,omitempty"`
	Placements int                    `json:"placements,omitempty"`
	Digest     string                 `json:"digest"`
}

type AuditEntry struct {
	Tick    uint64         `json:"tick"`
	Actor   string         `json:"actor"`
	Action  string         `json:"action"` // e.g. "SET_BLOCK"
	Pos     [3]int         `json:"pos"`
	From    uint16         `json:"from"`
	To      uint16         `json:"to"`
	Reason  string         `json:"reason,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
