package world

import (
	"context"
	"time"

	"railcraft.ai/internal/sim/scenario"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingSpawns []SpawnRequest
	var pendingLoads []LoadItems

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.spawn:
			pendingSpawns = append(pendingSpawns, req)
		case req := <-w.load:
			pendingLoads = append(pendingLoads, req)
		case req := <-w.observerJoin:
			w.handleObserverJoin(req)
		case id := <-w.observerLeave:
			w.handleObserverLeave(id)
		case <-ticker.C:
			w.stepInternal(pendingSpawns, pendingLoads)
			pendingSpawns = pendingSpawns[:0]
			pendingLoads = pendingLoads[:0]
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

// StepOnce advances the world by a single tick using the same ordering semantics as the server.
// It is primarily intended for deterministic replays/tests.
func (w *World) StepOnce(spawns []scenario.VehicleSpec, loads []LoadItems) (tick uint64, digest string) {
	tick = w.tick.Load()
	reqs := make([]SpawnRequest, 0, len(spawns))
	for _, s := range spawns {
		reqs = append(reqs, SpawnRequest{Spec: s})
	}
	digest = w.stepInternal(reqs, loads)
	return tick, digest
}
