package observer

import (
	"encoding/json"
	"net/http"
	"time"

	"railcraft.ai/internal/protocol"
	"railcraft.ai/internal/sim/scenario"
	"railcraft.ai/internal/sim/world"
)

const maxBodyBytes = 64 * 1024

// SpawnHandler queues a vehicle spawn and waits for the tick that applies it.
func (s *Server) SpawnHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(rw, r) {
			return
		}
		var spec scenario.VehicleSpec
		if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, maxBodyBytes)).Decode(&spec); err != nil {
			writeJSONResponse(rw, http.StatusBadRequest, protocol.NewError(protocol.ErrProtoBadRequest, err.Error()))
			return
		}

		resp := make(chan world.SpawnResponse, 1)
		select {
		case s.world.Spawn() <- world.SpawnRequest{Spec: spec, Resp: resp}:
		default:
			writeJSONResponse(rw, http.StatusServiceUnavailable, protocol.NewError(protocol.ErrWorldBusy, "spawn queue full"))
			return
		}
		select {
		case out := <-resp:
			if out.Err != nil {
				writeJSONResponse(rw, http.StatusBadRequest, protocol.NewError(protocol.ErrProtoBadRequest, out.Err.Error()))
				return
			}
			writeJSONResponse(rw, http.StatusCreated, map[string]string{"vehicle_id": out.VehicleID})
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			writeJSONResponse(rw, http.StatusGatewayTimeout, protocol.NewError(protocol.ErrInternal, "world did not answer"))
		}
	}
}

// LoadHandler queues items for a vehicle inventory. The load applies at the
// next tick; unknown vehicles and full inventories are skipped there.
func (s *Server) LoadHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(rw, r) {
			return
		}
		var req world.LoadItems
		if err := json.NewDecoder(http.MaxBytesReader(rw, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeJSONResponse(rw, http.StatusBadRequest, protocol.NewError(protocol.ErrProtoBadRequest, err.Error()))
			return
		}
		if req.VehicleID == "" || req.Item == "" || req.Count <= 0 {
			writeJSONResponse(rw, http.StatusBadRequest, protocol.NewError(protocol.ErrProtoBadRequest, "vehicle_id and item are required; count must be positive"))
			return
		}
		select {
		case s.world.Load() <- req:
			rw.WriteHeader(http.StatusAccepted)
		default:
			writeJSONResponse(rw, http.StatusServiceUnavailable, protocol.NewError(protocol.ErrWorldBusy, "load queue full"))
		}
	}
}
