package manifest

import (
	"sync"

	"github.com/kitlaan/edmc-cargo-manifest/core/journal"
	"github.com/kitlaan/edmc-cargo-manifest/feature/capacity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/commodity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"

	"go.uber.org/zap"
)

// inventory is the tracked state of one vehicle context.
type inventory struct {
	snap Snapshot
	// lastTotal is the last cargo total reported for this context, used to
	// derive deltas from generic total events.
	lastTotal int
}

func (inv *inventory) reset() {
	inv.snap = Snapshot{Sequence: inv.snap.Sequence}
	inv.lastTotal = 0
}

// Engine is the event-driven reconciliation core. It consumes typed journal
// events and maintains a consistent inventory/mission/capacity model that can
// be queried at any time, even when authoritative events never arrive.
//
// Events are delivered one at a time by the host; the lock only exists so
// the read-only facade can be queried from the HTTP goroutines while events
// flow. The engine runs for the process lifetime; a session reset is an
// ordinary transition back to an empty snapshot, not a teardown.
type Engine struct {
	mu sync.RWMutex

	logger *zap.Logger
	norm   *commodity.Normalizer
	table  capacity.Table
	cache  *missions.Cache

	vehicle  VehicleContext
	lastShip string

	ship    inventory
	srv     inventory
	shipCap capacity.Estimator
	srvCap  capacity.Estimator

	seq uint64

	subs    map[int]chan struct{}
	nextSub int
}

var _ journal.Handler = (*Engine)(nil)

// NewEngine creates a tracking engine with an empty snapshot.
func NewEngine(norm *commodity.Normalizer, table capacity.Table, cache *missions.Cache, logger *zap.Logger) *Engine {
	return &Engine{
		logger: logger,
		norm:   norm,
		table:  table,
		cache:  cache,
		subs:   make(map[int]chan struct{}),
	}
}

// inventoryFor maps a journal vessel tag to the tracked context. Auxiliary
// vehicle cargo and main ship cargo are never merged: capacities and
// contents are independent.
func (e *Engine) inventoryFor(vessel string) (*inventory, *capacity.Estimator) {
	if vessel == "SRV" {
		return &e.srv, &e.srvCap
	}
	return &e.ship, &e.shipCap
}

// HandleFullSnapshot replaces the context's inventory wholesale. A full
// enumeration is the authoritative source and always wins over prior
// partial inference, unless it is strictly older than what we already hold.
func (e *Engine) HandleFullSnapshot(ev journal.CargoSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, est := e.inventoryFor(ev.Vessel)

	if ev.Timestamp.Before(inv.snap.Timestamp) {
		e.logger.Debug("Rejected stale cargo snapshot",
			zap.String("vessel", ev.Vessel),
			zap.Time("event", ev.Timestamp),
			zap.Time("current", inv.snap.Timestamp),
		)
		return
	}

	type lineKey struct {
		symbol string
		stolen bool
	}
	type bucket struct {
		key   commodity.Key
		count int
	}
	counts := make(map[lineKey]*bucket)
	add := func(key commodity.Key, stolen bool, n int) {
		if n <= 0 {
			return
		}
		id := lineKey{symbol: key.Symbol, stolen: stolen}
		b, ok := counts[id]
		if !ok {
			b = &bucket{key: key}
			counts[id] = b
		}
		b.count += n
	}

	attrCounts := make(map[MissionAttribution]int)
	attribute := func(missionID int64, symbol string, stolen bool, n int) {
		if missionID == 0 || n <= 0 {
			return
		}
		attrCounts[MissionAttribution{MissionID: missionID, Symbol: symbol, Stolen: stolen}] += n
	}

	total := 0
	for _, item := range ev.Inventory {
		key := e.norm.Normalize(item.Name)
		total += item.Count

		stolen := item.Stolen
		if stolen > item.Count {
			e.logger.Warn("Cargo item reports more stolen than held, clamping",
				zap.String("commodity", key.Symbol),
				zap.Int("count", item.Count),
				zap.Int("stolen", stolen),
			)
			stolen = item.Count
		}
		legit := item.Count - stolen

		// Tie-break: the event may omit stolen status that a cached
		// mission knows about. The mission's flag takes precedence over
		// a default-to-legitimate assumption.
		if stolen == 0 && legit > 0 && e.missionSaysStolen(item.MissionID, key.Symbol) {
			stolen, legit = legit, 0
		}

		add(key, false, legit)
		add(key, true, stolen)
		attribute(item.MissionID, key.Symbol, false, legit)
		attribute(item.MissionID, key.Symbol, true, stolen)
	}

	lines := make([]CargoLine, 0, len(counts))
	for id, b := range counts {
		lines = append(lines, CargoLine{
			Commodity: b.key,
			Count:     b.count,
			Stolen:    id.stolen,
		})
	}
	sortLines(lines)

	attrs := make([]MissionAttribution, 0, len(attrCounts))
	for attr, n := range attrCounts {
		attr.Count = n
		attrs = append(attrs, attr)
	}
	sortAttributions(attrs)

	next := Snapshot{
		Lines:         lines,
		Attributions:  attrs,
		Sequence:      inv.snap.Sequence,
		Timestamp:     ev.Timestamp,
		LastConfirmed: ev.Timestamp,
	}

	// Journal timestamps are second-granular, so an equal timestamp alone
	// does not mean a duplicate: two snapshots in the same second are real
	// ordered events. Only an exact content match is the at-least-once
	// redelivery no-op.
	if !inv.snap.LastConfirmed.IsZero() && ev.Timestamp.Equal(inv.snap.LastConfirmed) &&
		next.contentEqual(inv.snap) {
		return
	}

	e.seq++
	next.Sequence = e.seq
	inv.snap = next
	inv.lastTotal = total

	est.Observe(total)
	e.notifyLocked()
}

// missionSaysStolen consults the mission cache for a stolen-cargo
// attribution, first by the item's mission ID, then by commodity.
func (e *Engine) missionSaysStolen(missionID int64, symbol string) bool {
	if missionID != 0 {
		if m, ok := e.cache.Lookup(missionID); ok {
			return m.Stolen
		}
	}
	for _, m := range e.cache.ActiveByCommodity(symbol) {
		if m.Stolen {
			return true
		}
	}
	return false
}

// HandleCargoTotal folds a generic total-count event in. The difference
// against the last known total lands in the unclassified bucket: an
// under-specified delta must never be silently attributed to a guessed
// commodity or stolen flag.
func (e *Engine) HandleCargoTotal(ev journal.CargoTotal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv, est := e.inventoryFor(ev.Vessel)

	est.Observe(ev.Count)

	if ev.Timestamp.Before(inv.snap.Timestamp) {
		return
	}

	if ev.Count == inv.lastTotal {
		inv.snap.Timestamp = ev.Timestamp
		return
	}

	inv.snap.Unclassified += ev.Count - inv.lastTotal
	inv.lastTotal = ev.Count
	e.seq++
	inv.snap.Sequence = e.seq
	inv.snap.Timestamp = ev.Timestamp

	e.notifyLocked()
}

// HandleMissionAccepted records the cargo commitment a new mission implies.
// It does not alter the inventory: cargo only materializes once picked up
// or delivered, observed via full snapshots.
func (e *Engine) HandleMissionAccepted(ev journal.MissionAccepted) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cls := missions.Classify(ev.Name)
	if !cls.Tracked || ev.Commodity == "" || ev.Count <= 0 {
		e.logger.Debug("Ignoring mission without ship cargo",
			zap.Int64("mission_id", ev.MissionID),
			zap.String("name", ev.Name),
		)
		return
	}

	key := e.norm.Normalize(ev.Commodity)
	localised := ev.CommodityLocalised
	if localised == "" {
		localised = ev.Commodity
	}

	e.cache.RecordAccepted(missions.Mission{
		ID:        ev.MissionID,
		Commodity: key.Symbol,
		Localised: localised,
		Total:     ev.Count,
		Remaining: ev.Count,
		Stolen:    cls.Stolen,
		Allocated: cls.Allocated,
	})

	e.notifyLocked()
}

// HandleMissionTerminal marks a mission finished. Cargo consequences arrive
// separately as Cargo events; the terminal record is kept so those can be
// attributed to the mission instead of misread as generic loss.
func (e *Engine) HandleMissionTerminal(ev journal.MissionTerminal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	status := missions.StatusCompleted
	switch ev.Outcome {
	case journal.OutcomeAbandoned:
		status = missions.StatusAbandoned
	case journal.OutcomeExpired:
		status = missions.StatusExpired
	}

	if e.cache.RecordTerminal(ev.MissionID, status) {
		e.notifyLocked()
	}
}

// HandleMissionsList reconciles the cache against the authoritative active
// mission IDs.
func (e *Engine) HandleMissionsList(ev journal.MissionsList) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache.PruneInactive(ev.ActiveIDs) > 0 {
		e.notifyLocked()
	}
}

// HandleCargoDepot applies mission cargo progress, including partial
// deliveries for missions accepted before the engine was running.
func (e *Engine) HandleCargoDepot(ev journal.CargoDepot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := e.norm.Normalize(ev.CargoType)
	localised := ev.CargoTypeLocalised
	if localised == "" {
		localised = ev.CargoType
	}

	e.cache.UpdateProgress(ev.MissionID, key.Symbol, localised, ev.TotalItemsToDeliver, ev.ItemsDelivered, ev.ItemsCollected)
	e.notifyLocked()
}

// HandleCapacity applies an authoritative loadout report: the named ship
// becomes the current context and its capacity becomes explicit.
func (e *Engine) HandleCapacity(ev journal.CapacityReport) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ship := commodity.Canonicalise(ev.Ship)
	e.vehicle = VehicleContext{Vehicle: ship}
	e.lastShip = ship
	e.shipCap.SetExplicit(ev.CargoCapacity)

	e.notifyLocked()
}

// HandleVehicleChange swaps the current vehicle context. Recognized
// auxiliary vehicles take their capacity from the static table immediately,
// with no observation needed; unrecognized identifiers fall through to the
// observed/explicit path (and, until added to the table, are treated as a
// main ship — that is the table's documented maintenance obligation).
func (e *Engine) HandleVehicleChange(ev journal.VehicleChange) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.ToShip {
		e.vehicle = VehicleContext{Vehicle: e.lastShip}
		e.notifyLocked()
		return
	}

	vehicle := commodity.Canonicalise(ev.Vehicle)
	aux := e.table.IsAuxiliary(vehicle)
	e.vehicle = VehicleContext{Vehicle: vehicle, Auxiliary: aux}

	if aux {
		if c, ok := e.table.Lookup(vehicle); ok {
			e.srvCap.SetExplicit(c)
		}
	} else if vehicle != "" {
		e.lastShip = vehicle
	}

	e.notifyLocked()
}

// HandleSessionReset clears inventory tracking. The mission cache survives:
// commitments do not evaporate because the player died or quit. Capacity
// estimates survive per known vehicle context; with no vehicle known they
// reset to observation from zero. A shutdown additionally forgets the
// vehicle context entirely, matching a fresh game start.
func (e *Engine) HandleSessionReset(ev journal.SessionReset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ship.reset()
	e.srv.reset()

	if ev.Reason == "shutdown" || e.vehicle.Vehicle == "" {
		e.vehicle = VehicleContext{}
		e.lastShip = ""
		e.shipCap.Reset()
		e.srvCap.Reset()
	}

	e.seq++
	e.ship.snap.Sequence = e.seq
	e.srv.snap.Sequence = e.seq

	e.logger.Info("Session reset", zap.String("reason", ev.Reason))
	e.notifyLocked()
}
