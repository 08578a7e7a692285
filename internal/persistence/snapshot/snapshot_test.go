package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() SnapshotV1 {
	return SnapshotV1{
		Header:            Header{Version: Version, WorldID: "rails-demo", Tick: 42},
		Seed:              1337,
		TickRate:          20,
		BoundaryR:         64,
		PlacementStrategy: "heading",
		CargoMaxItems:     2971,
		ExplosiveFuseMs:   4000,
		FollowerMaxSpeed:  8,
		NextVehicleNum:    3,
		Chunks: []ChunkV1{{
			CX: 0, CY: -1, CZ: 0, Size: 16,
			Blocks: []uint16{1, 2, 3},
		}},
		Vehicles: []VehicleV1{
			{
				ID:             "V000001",
				Pos:            [3]float32{4.5, 0, -1.5},
				TrackLayer:     true,
				HasRail:        true,
				Velocity:       [3]float32{2, 0, 0},
				HasPath:        true,
				Heading:        [3]float32{1, 0, 0},
				HeadingValid:   true,
				HasAssociation: true,
				Association:    [3]int{4, 0, -2},
				HasInventory:   true,
				Slots:          []ItemStackV1{{}, {Item: "RAIL", Count: 3}},
			},
			{
				ID:           "V000002",
				HasRail:      true,
				HasExplosive: true,
				FuseLengthMs: 4000,
				HasCargo:     true,
			},
		},
	}
}

func TestWriteReadSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "42.snap.zst")
	want := sampleSnapshot()
	require.NoError(t, WriteSnapshot(path, want))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	h, err := ReadHeader(path)
	require.NoError(t, err)
	require.Equal(t, want.Header, h)
}

func TestReadSnapshotRejectsOtherVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.snap.zst")
	snap := sampleSnapshot()
	snap.Header.Version = 7
	require.NoError(t, WriteSnapshot(path, snap))

	_, err := ReadSnapshot(path)
	require.Error(t, err)
}

func TestReadSnapshotMissingFile(t *testing.T) {
	_, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.snap.zst"))
	require.Error(t, err)
}
