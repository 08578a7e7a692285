package world

import (
	"crypto/sha256"
	"encoding/hex"

	"railcraft.ai/internal/sim/world/io/digestcodec"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

// stateDigest hashes everything the simulation reads: loaded chunks and
// vehicles, both in canonical order.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestcodec.WriteU64(h, &tmp, nowTick)
	digestcodec.WriteString(h, &tmp, w.cfg.ID)

	keys := w.chunks.LoadedChunkKeys()
	digestcodec.WriteU64(h, &tmp, uint64(len(keys)))
	for _, k := range keys {
		digestcodec.WriteI64(h, &tmp, int64(k.CX))
		digestcodec.WriteI64(h, &tmp, int64(k.CY))
		digestcodec.WriteI64(h, &tmp, int64(k.CZ))
		d := w.chunks.Chunks[k].Digest()
		h.Write(d[:])
	}

	vehicles := w.sortedVehicles()
	digestcodec.WriteU64(h, &tmp, uint64(len(vehicles)))
	for _, v := range vehicles {
		digestVehicle(h, &tmp, v)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func digestVehicle(h digestcodec.Writer, tmp *[8]byte, v *modelpkg.Vehicle) {
	digestcodec.WriteString(h, tmp, v.ID)
	for _, f := range v.Pos {
		digestcodec.WriteF32(h, tmp, f)
	}
	digestcodec.WriteBool(h, v.TrackLayer)

	digestcodec.WriteBool(h, v.Rail != nil)
	if v.Rail != nil {
		for _, f := range v.Rail.Velocity {
			digestcodec.WriteF32(h, tmp, f)
		}
	}
	digestcodec.WriteBool(h, v.Path != nil)
	if v.Path != nil {
		for _, f := range v.Path.Heading {
			digestcodec.WriteF32(h, tmp, f)
		}
		digestcodec.WriteBool(h, v.Path.HeadingValid)
		digestcodec.WriteBool(h, v.Path.Association != nil)
		if a := v.Path.Association; a != nil {
			digestcodec.WriteI64(h, tmp, int64(a.X))
			digestcodec.WriteI64(h, tmp, int64(a.Y))
			digestcodec.WriteI64(h, tmp, int64(a.Z))
		}
	}
	digestcodec.WriteBool(h, v.Inventory != nil)
	if v.Inventory != nil {
		digestcodec.WriteU64(h, tmp, uint64(len(v.Inventory.Slots)))
		for _, s := range v.Inventory.Slots {
			if s.Empty() {
				digestcodec.WriteString(h, tmp, "")
				digestcodec.WriteI64(h, tmp, 0)
				continue
			}
			digestcodec.WriteString(h, tmp, s.Item)
			digestcodec.WriteI64(h, tmp, int64(s.Count))
		}
	}
	digestcodec.WriteBool(h, v.Cargo != nil)
	if v.Cargo != nil {
		digestcodec.WriteI64(h, tmp, int64(v.Cargo.Weight))
	}
	digestcodec.WriteBool(h, v.Explosive != nil)
	if v.Explosive != nil {
		digestcodec.WriteI64(h, tmp, v.Explosive.FuseLengthMs)
	}
}
