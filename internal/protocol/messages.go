package protocol

// SUBSCRIBE (observer -> server)
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// Vehicles restricts the vehicle list of every TICK to these ids. Empty
	// means all vehicles.
	Vehicles []string `json:"vehicles,omitempty"`
	// PlacementsOnly drops the vehicle list and keeps only placements.
	PlacementsOnly bool `json:"placements_only,omitempty"`
}

// TICK (server -> observer): one message per simulated tick.
type TickMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Tick            uint64          `json:"tick"`
	WorldID         string          `json:"world_id"`
	Digest          string          `json:"digest"`
	Placements      []PlacementInfo `json:"placements"`
	Vehicles        []VehicleInfo   `json:"vehicles,omitempty"`
}

// PlacementInfo is one rail block laid by a track-layer vehicle.
type PlacementInfo struct {
	VehicleID string `json:"vehicle_id"`
	Pos       [3]int `json:"pos"`
	Side      string `json:"side"` // "+X","-X","+Z","-Z"
	Ahead     bool   `json:"ahead"`
	Block     string `json:"block"`
	Item      string `json:"item"`
}

type VehicleInfo struct {
	ID       string     `json:"id"`
	Pos      [3]float32 `json:"pos"`
	Velocity [3]float32 `json:"velocity"`
	Heading  [3]float32 `json:"heading"`
	OnTrack  bool       `json:"on_track"`
	// Items is the inventory total; omitted for vehicles without inventory.
	Items *int `json:"items,omitempty"`
}

// ERROR (server -> observer), sent before the server closes the socket.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

// Bootstrap is the body of GET /v1/bootstrap.
type Bootstrap struct {
	ProtocolVersion string         `json:"protocol_version"`
	WorldID         string         `json:"world_id"`
	Tick            uint64         `json:"tick"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
	BlockPalette    []string       `json:"block_palette"`
	RailFamilies    []string       `json:"rail_families"`
}

type WorldParams struct {
	TickRateHz        int    `json:"tick_rate_hz"`
	ChunkSize         [3]int `json:"chunk_size"`
	GroundY           int    `json:"ground_y"`
	BoundaryR         int    `json:"boundary_r"`
	Seed              int64  `json:"seed"`
	PlacementStrategy string `json:"placement_strategy"`
}

type CatalogDigests struct {
	BlockPalette DigestRef `json:"block_palette"`
	ItemPalette  DigestRef `json:"item_palette"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}
