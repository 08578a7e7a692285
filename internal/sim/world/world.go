package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/protocol"
	"railcraft.ai/internal/sim/catalogs"
	railsruntime "railcraft.ai/internal/sim/world/feature/rails/runtime"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
	genpkg "railcraft.ai/internal/sim/world/terrain/gen"
	storepkg "railcraft.ai/internal/sim/world/terrain/store"
)

var (
	ErrDuplicateVehicle = errors.New("duplicate vehicle id")
	ErrUnknownVehicle   = errors.New("unknown vehicle")
)

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs

	tick atomic.Uint64

	chunks *storepkg.ChunkStore
	grid   gridAdapter

	vehicles map[string]*modelpkg.Vehicle
	engine   *railsruntime.Engine

	spawn         chan SpawnRequest
	load          chan LoadItems
	observerJoin  chan ObserverJoinRequest
	observerLeave chan string
	stop          chan struct{}
	stopOnce      sync.Once

	observers map[string]*observerClient

	nextVehicleNum atomic.Uint64

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	// Optional snapshot sink (may be nil). Snapshot writing should be off-thread.
	snapshotSink chan<- snapshot.SnapshotV1

	// Per-tick track layer results, reset at the start of each tick.
	placedThisTick  []protocol.PlacementInfo
	changedThisTick map[string]bool
	stepTick        uint64
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("world: tick_rate_hz %d", cfg.TickRateHz)
	}
	pal, err := terrainPalette(cats)
	if err != nil {
		return nil, err
	}
	gen := storepkg.WorldGen{
		Seed:      cfg.Seed,
		BoundaryR: cfg.BoundaryR,
		GroundY:   cfg.GroundY,
		Palette:   pal,
	}

	w := &World{
		cfg:             cfg,
		catalogs:        cats,
		chunks:          storepkg.NewChunkStore(gen),
		vehicles:        map[string]*modelpkg.Vehicle{},
		engine:          railsruntime.NewEngine(cfg.PlacementStrategy),
		spawn:           make(chan SpawnRequest, 64),
		load:            make(chan LoadItems, 256),
		observerJoin:    make(chan ObserverJoinRequest, 16),
		observerLeave:   make(chan string, 16),
		stop:            make(chan struct{}),
		observers:       map[string]*observerClient{},
		changedThisTick: map[string]bool{},
	}
	w.grid = gridAdapter{w: w}
	w.engine.Observe = w.observeTrackLayer
	return w, nil
}

func terrainPalette(cats *catalogs.Catalogs) (genpkg.Palette, error) {
	var p genpkg.Palette
	for _, f := range []struct {
		name string
		dst  *uint16
	}{
		{"AIR", &p.Air},
		{"GRASS", &p.Grass},
		{"DIRT", &p.Dirt},
		{"SAND", &p.Sand},
		{"STONE", &p.Stone},
		{"GRAVEL", &p.Gravel},
	} {
		b, err := cats.BlockID(f.name)
		if err != nil {
			return p, fmt.Errorf("world: terrain palette: %w", err)
		}
		*f.dst = b
	}
	return p, nil
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger)                  { w.auditLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

func (w *World) Spawn() chan<- SpawnRequest               { return w.spawn }
func (w *World) Load() chan<- LoadItems                   { return w.load }
func (w *World) ObserverJoin() chan<- ObserverJoinRequest { return w.observerJoin }
func (w *World) ObserverLeave() chan<- string             { return w.observerLeave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) Config() WorldConfig { return w.cfg }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

// sortedVehicles lists vehicles in ascending id order, the order every system
// processes them in.
func (w *World) sortedVehicles() []*modelpkg.Vehicle {
	ids := make([]string, 0, len(w.vehicles))
	for id := range w.vehicles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*modelpkg.Vehicle, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.vehicles[id])
	}
	return out
}

// Bootstrap describes the world for observers. It reads only immutable state
// and is safe to call from any goroutine.
func (w *World) Bootstrap() protocol.Bootstrap {
	return protocol.Bootstrap{
		ProtocolVersion: protocol.Version,
		WorldID:         w.cfg.ID,
		Tick:            w.CurrentTick(),
		WorldParams: protocol.WorldParams{
			TickRateHz:        w.cfg.TickRateHz,
			ChunkSize:         [3]int{storepkg.ChunkSize, storepkg.ChunkSize, storepkg.ChunkSize},
			GroundY:           w.cfg.GroundY,
			BoundaryR:         w.cfg.BoundaryR,
			Seed:              w.cfg.Seed,
			PlacementStrategy: w.engine.Primary.Name(),
		},
		Catalogs: protocol.CatalogDigests{
			BlockPalette: protocol.DigestRef{Digest: w.catalogs.Blocks.PaletteDigest, Count: len(w.catalogs.Blocks.Palette)},
			ItemPalette:  protocol.DigestRef{Digest: w.catalogs.Items.PaletteDigest, Count: len(w.catalogs.Items.Palette)},
		},
		BlockPalette: append([]string(nil), w.catalogs.Blocks.Palette...),
		RailFamilies: w.catalogs.Rails.IDs(),
	}
}
