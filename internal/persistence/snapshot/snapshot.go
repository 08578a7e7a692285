package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed      int64 `json:"seed"`
	TickRate  int   `json:"tick_rate_hz"`
	GroundY   int   `json:"ground_y"`
	BoundaryR int   `json:"boundary_r"`

	// Operational parameters (captured for deterministic replay/resume).
	SnapshotEveryTicks int     `json:"snapshot_every_ticks,omitempty"`
	PlacementStrategy  string  `json:"placement_strategy"`
	CargoMaxItems      int     `json:"cargo_max_items"`
	ExplosiveFuseMs    int64   `json:"explosive_fuse_ms"`
	FollowerMaxSpeed   float32 `json:"follower_max_speed"`

	PaletteDigest  string `json:"palette_digest"`
	NextVehicleNum uint64 `json:"next_vehicle_num"`

	Chunks   []ChunkV1   `json:"chunks"`
	Vehicles []VehicleV1 `json:"vehicles"`
}

type ChunkV1 struct {
	CX     int      `json:"cx"`
	CY     int      `json:"cy"`
	CZ     int      `json:"cz"`
	Size   int      `json:"size"`
	Blocks []uint16 `json:"blocks"`
}

// VehicleV1 flattens the optional vehicle components; the Has* flags record
// which ones exist.
type VehicleV1 struct {
	ID         string     `json:"id"`
	Pos        [3]float32 `json:"pos"`
	TrackLayer bool       `json:"track_layer,omitempty"`

	HasRail  bool       `json:"has_rail"`
	Velocity [3]float32 `json:"velocity"`

	HasPath        bool       `json:"has_path"`
	Heading        [3]float32 `json:"heading"`
	HeadingValid   bool       `json:"heading_valid"`
	HasAssociation bool       `json:"has_association"`
	Association    [3]int     `json:"association"`

	HasInventory bool          `json:"has_inventory"`
	Slots        []ItemStackV1 `json:"slots,omitempty"`

	HasCargo    bool `json:"has_cargo"`
	CargoWeight int  `json:"cargo_weight"`

	HasExplosive bool  `json:"has_explosive"`
	FuseLengthMs int64 `json:"fuse_length_ms"`
}

type ItemStackV1 struct {
	Item  string `json:"item,omitempty"`
	Count int    `json:"count,omitempty"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The header line is repeated inside the gob payload.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("snapshot version %d, want %d", snap.Header.Version, Version)
	}
	return snap, nil
}

// ReadHeader decodes only the leading JSON header line of a snapshot file.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}
