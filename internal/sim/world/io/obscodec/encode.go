package obscodec

import (
	"railcraft.ai/internal/protocol"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

func VehicleInfo(v *modelpkg.Vehicle) protocol.VehicleInfo {
	out := protocol.VehicleInfo{
		ID:  v.ID,
		Pos: [3]float32(v.Pos),
	}
	if v.Rail != nil {
		out.Velocity = [3]float32(v.Rail.Velocity)
	}
	if v.Path != nil {
		out.Heading = [3]float32(v.Path.Heading)
		out.OnTrack = v.Path.Association != nil
	}
	if v.Inventory != nil {
		n := v.Inventory.Total()
		out.Items = &n
	}
	return out
}

// FilterTick returns the view of msg an observer subscribed with sub gets.
// msg is shared between observers and is never modified.
func FilterTick(msg protocol.TickMsg, sub protocol.SubscribeMsg) protocol.TickMsg {
	if sub.PlacementsOnly {
		msg.Vehicles = nil
		return msg
	}
	if len(sub.Vehicles) == 0 {
		return msg
	}
	want := make(map[string]bool, len(sub.Vehicles))
	for _, id := range sub.Vehicles {
		want[id] = true
	}
	vs := make([]protocol.VehicleInfo, 0, len(sub.Vehicles))
	for _, v := range msg.Vehicles {
		if want[v.ID] {
			vs = append(vs, v)
		}
	}
	msg.Vehicles = vs
	return msg
}
