package world

import (
	"encoding/json"
	"sort"

	"railcraft.ai/internal/protocol"
	railsruntime "railcraft.ai/internal/sim/world/feature/rails/runtime"
	"railcraft.ai/internal/sim/world/io/obscodec"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

type observerClient struct {
	sub     protocol.SubscribeMsg
	tickOut chan []byte
}

func (w *World) handleObserverJoin(req ObserverJoinRequest) {
	if req.SessionID == "" || req.TickOut == nil {
		return
	}
	w.observers[req.SessionID] = &observerClient{sub: req.Sub, tickOut: req.TickOut}
}

func (w *World) handleObserverLeave(id string) {
	delete(w.observers, id)
}

func placementInfo(r railsruntime.Report, block string) protocol.PlacementInfo {
	return protocol.PlacementInfo{
		VehicleID: r.VehicleID,
		Pos:       r.Pos.ToArray(),
		Side:      r.Side.String(),
		Ahead:     r.Ahead,
		Block:     block,
		Item:      r.Item,
	}
}

func (w *World) buildTickMsg(nowTick uint64, digest string, vehicles []*modelpkg.Vehicle) protocol.TickMsg {
	msg := protocol.TickMsg{
		Type:            protocol.TypeTick,
		ProtocolVersion: protocol.Version,
		Tick:            nowTick,
		WorldID:         w.cfg.ID,
		Digest:          digest,
		Placements:      append([]protocol.PlacementInfo(nil), w.placedThisTick...),
		Vehicles:        make([]protocol.VehicleInfo, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		msg.Vehicles = append(msg.Vehicles, obscodec.VehicleInfo(v))
	}
	return msg
}

func (w *World) stepObservers(nowTick uint64, digest string, vehicles []*modelpkg.Vehicle) {
	if len(w.observers) == 0 {
		return
	}
	msg := w.buildTickMsg(nowTick, digest, vehicles)

	ids := make([]string, 0, len(w.observers))
	for id := range w.observers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := w.observers[id]
		b, err := json.Marshal(obscodec.FilterTick(msg, c.sub))
		if err != nil {
			continue
		}
		sendLatest(c.tickOut, b)
	}
}

// sendLatest never blocks the world loop: when the channel is full the oldest
// message is dropped.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
