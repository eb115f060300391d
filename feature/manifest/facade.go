package manifest

import (
	"time"

	"github.com/kitlaan/edmc-cargo-manifest/feature/capacity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"
)

// The facade is the read-only surface around the reconciler. Every accessor
// returns a copy; callers never receive references into engine state.

// Snapshot returns the inventory of the current vehicle context.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentInventoryLocked().snap.clone()
}

// ShipSnapshot returns the main ship inventory regardless of context.
func (e *Engine) ShipSnapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ship.snap.clone()
}

// SRVSnapshot returns the auxiliary vehicle inventory regardless of context.
func (e *Engine) SRVSnapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.srv.snap.clone()
}

// Capacity returns the capacity estimate for the current vehicle context.
func (e *Engine) Capacity() capacity.Estimate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.vehicle.Auxiliary {
		return e.srvCap.Current()
	}
	return e.shipCap.Current()
}

// Vehicle returns the current vehicle context.
func (e *Engine) Vehicle() VehicleContext {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.vehicle
}

// LastConfirmed returns the source-event time of the last full snapshot for
// the current context. Zero means no full confirmation has been seen; the
// display collaborator indicates staleness rather than presenting totals as
// certain.
func (e *Engine) LastConfirmed() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentInventoryLocked().snap.LastConfirmed
}

// Sequence returns the engine-wide change counter.
func (e *Engine) Sequence() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seq
}

// Missions returns the active cargo-bearing missions.
func (e *Engine) Missions() []missions.Mission {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache.Active()
}

// AllMissions returns every tracked mission, terminal included.
func (e *Engine) AllMissions() []missions.Mission {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache.All()
}

// Mission returns one tracked mission by id for display enrichment.
// Not-found is expected for missions accepted while the engine was down.
func (e *Engine) Mission(id int64) (missions.Mission, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cache.Lookup(id)
}

// Report returns the mission-allocated manifest view for the current
// vehicle context. Mission allocation only applies to the main ship;
// auxiliary vehicles have no mission cargo.
func (e *Engine) Report() Report {
	e.mu.RLock()
	defer e.mu.RUnlock()

	inv := e.currentInventoryLocked()
	if e.vehicle.Auxiliary {
		return BuildReport(inv.snap.clone(), nil)
	}
	return BuildReport(inv.snap.clone(), e.cache.Active())
}

func (e *Engine) currentInventoryLocked() *inventory {
	if e.vehicle.Auxiliary {
		return &e.srv
	}
	return &e.ship
}

// Subscribe registers a change listener. The returned channel receives a
// coalesced signal after every accepted state change; a slow listener never
// blocks event processing. Callers must Unsubscribe when done.
func (e *Engine) Subscribe() (int, <-chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan struct{}, 1)
	e.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a change listener.
func (e *Engine) Unsubscribe(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subs, id)
}

// notifyLocked signals all subscribers without blocking. Callers hold the
// write lock.
func (e *Engine) notifyLocked() {
	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
