package world

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"railcraft.ai/internal/protocol"
	"railcraft.ai/internal/sim/scenario"
)

func demoWorld(t *testing.T) *World {
	t.Helper()
	w, _ := newTestWorld(t, testConfig())
	s, err := scenario.Load("../../../configs/scenario.yaml")
	require.NoError(t, err)
	require.NoError(t, w.ApplyScenario(s))
	return w
}

// inputsAt is a fixed input schedule shared by the determinism tests.
func inputsAt(tick uint64) ([]scenario.VehicleSpec, []LoadItems) {
	switch tick {
	case 5:
		return nil, []LoadItems{{VehicleID: "HOPPER_1", Item: "COAL", Count: 500}}
	case 12:
		return []scenario.VehicleSpec{{Pos: [3]int{0, 0, 9}, TrackLayer: true, Inventory: []scenario.Stack{{Item: "RAIL", Count: 4}}}}, nil
	}
	return nil, nil
}

func runTicks(w *World, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		spawns, loads := inputsAt(w.CurrentTick())
		_, d := w.StepOnce(spawns, loads)
		out = append(out, d)
	}
	return out
}

func TestDeterminism_SameInputsSameDigests(t *testing.T) {
	a := runTicks(demoWorld(t), 60)
	b := runTicks(demoWorld(t), 60)
	require.Equal(t, a, b)
	require.NotEqual(t, a[0], a[59])
}

func TestSnapshot_ImportResumesIdentically(t *testing.T) {
	a := demoWorld(t)
	runTicks(a, 20)
	snap := a.ExportSnapshot(a.CurrentTick() - 1)

	b, _ := newTestWorld(t, testConfig())
	require.NoError(t, b.ImportSnapshot(snap))
	require.Equal(t, a.CurrentTick(), b.CurrentTick())
	require.Equal(t, a.ID(), b.ID())

	require.Equal(t, runTicks(a, 30), runTicks(b, 30))

	// Generated ids continue from the snapshot counter.
	idA, err := a.SpawnNow(scenario.VehicleSpec{})
	require.NoError(t, err)
	idB, err := b.SpawnNow(scenario.VehicleSpec{})
	require.NoError(t, err)
	require.Equal(t, "V000002", idA)
	require.Equal(t, idA, idB)
}

func TestSnapshot_ImportRejectsOtherTerrain(t *testing.T) {
	a := demoWorld(t)
	snap := a.ExportSnapshot(0)

	cfg := testConfig()
	cfg.Seed = 99
	b, _ := newTestWorld(t, cfg)
	require.Error(t, b.ImportSnapshot(snap))

	snap.Header.Version = 7
	c, _ := newTestWorld(t, testConfig())
	require.Error(t, c.ImportSnapshot(snap))
}

func TestTickLog_ReplayReproducesDigests(t *testing.T) {
	src := demoWorld(t)
	log := &tickSink{}
	src.SetTickLogger(log)
	runTicks(src, 30)
	require.Len(t, log.entries, 30)
	require.Len(t, log.entries[12].Spawns, 1)
	require.Equal(t, "V000001", log.entries[12].Spawns[0].ID)
	require.Equal(t, 500, log.entries[5].Loads[0].Count)

	dst := demoWorld(t)
	for _, e := range log.entries {
		tick, d := dst.StepOnce(e.Spawns, e.Loads)
		require.Equal(t, e.Tick, tick)
		require.Equal(t, e.Digest, d, "tick %d", e.Tick)
	}
}

func TestObserver_ReceivesFilteredTicks(t *testing.T) {
	w, _ := newTestWorld(t, testConfig())
	setBlock(t, w, Vec3i{}, "RAIL_EW")
	spawn(t, w, scenario.VehicleSpec{ID: "L1", Heading: heading(1, 0, 0), TrackLayer: true, Inventory: []scenario.Stack{{Item: "RAIL", Count: 1}}})
	spawn(t, w, scenario.VehicleSpec{ID: "X1", Pos: [3]int{5, 0, 5}})

	all := make(chan []byte, 1)
	only := make(chan []byte, 1)
	w.handleObserverJoin(ObserverJoinRequest{SessionID: "a", TickOut: all})
	w.handleObserverJoin(ObserverJoinRequest{SessionID: "b", TickOut: only, Sub: protocol.SubscribeMsg{Vehicles: []string{"X1"}}})

	_, digest := w.StepOnce(nil, nil)

	var msg protocol.TickMsg
	require.NoError(t, json.Unmarshal(<-all, &msg))
	require.Equal(t, protocol.TypeTick, msg.Type)
	require.Equal(t, digest, msg.Digest)
	require.Len(t, msg.Vehicles, 2)
	require.Equal(t, []protocol.PlacementInfo{{VehicleID: "L1", Pos: [3]int{1, 0, 0}, Side: "+X", Ahead: true, Block: "RAIL_EW", Item: "RAIL"}}, msg.Placements)
	require.Equal(t, 0, *msg.Vehicles[0].Items)
	require.Nil(t, msg.Vehicles[1].Items)

	require.NoError(t, json.Unmarshal(<-only, &msg))
	require.Len(t, msg.Vehicles, 1)
	require.Equal(t, "X1", msg.Vehicles[0].ID)

	// A slow observer keeps only the latest tick.
	w.StepOnce(nil, nil)
	w.StepOnce(nil, nil)
	require.NoError(t, json.Unmarshal(<-all, &msg))
	require.Equal(t, uint64(2), msg.Tick)

	w.handleObserverLeave("a")
	w.StepOnce(nil, nil)
	require.Len(t, all, 0)
}

func TestRun_AppliesInputsAtTickBoundary(t *testing.T) {
	cfg := testConfig()
	cfg.TickRateHz = 200
	w, _ := newTestWorld(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	resp := make(chan SpawnResponse, 1)
	w.Spawn() <- SpawnRequest{Spec: scenario.VehicleSpec{Cargo: true}, Resp: resp}
	select {
	case r := <-resp:
		require.NoError(t, r.Err)
		require.Equal(t, "V000001", r.VehicleID)
	case <-ctx.Done():
		t.Fatalf("spawn not applied")
	}

	w.Stop()
	w.Stop()
	require.NoError(t, <-done)
	require.Greater(t, w.CurrentTick(), uint64(0))
}

func TestBootstrap(t *testing.T) {
	w, _ := newTestWorld(t, testConfig())
	b := w.Bootstrap()
	require.Equal(t, protocol.Version, b.ProtocolVersion)
	require.Equal(t, "heading", b.WorldParams.PlacementStrategy)
	require.Equal(t, "AIR", b.BlockPalette[0])
	require.Equal(t, []string{"POWERED_RAIL", "RAIL"}, b.RailFamilies)
	require.Equal(t, len(b.BlockPalette), b.Catalogs.BlockPalette.Count)
}
