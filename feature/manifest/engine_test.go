package manifest

import (
	"testing"
	"time"

	"github.com/kitlaan/edmc-cargo-manifest/core/journal"
	"github.com/kitlaan/edmc-cargo-manifest/feature/capacity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/commodity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cache := missions.NewCache(nil, zap.NewNop())
	return NewEngine(commodity.NewNormalizer(), capacity.DefaultTable(), cache, zap.NewNop())
}

func ts(sec int) time.Time {
	return time.Date(2024, 3, 5, 12, 0, sec, 0, time.UTC)
}

func fullSnapshot(sec int, vessel string, items ...journal.CargoItem) journal.CargoSnapshot {
	total := 0
	for _, it := range items {
		total += it.Count
	}
	return journal.CargoSnapshot{Timestamp: ts(sec), Vessel: vessel, Count: total, Inventory: items}
}

func TestEngine_FullSnapshotIdempotence(t *testing.T) {
	e := newTestEngine(t)

	ev := fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 5})
	e.HandleFullSnapshot(ev)
	first := e.Snapshot()

	// Exact duplicate (same timestamp) is a no-op
	e.HandleFullSnapshot(ev)
	second := e.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, first.Sequence, second.Sequence)
}

func TestEngine_SnapshotAggregation(t *testing.T) {
	e := newTestEngine(t)

	// The same commodity under different spellings, with a stolen split
	e.HandleFullSnapshot(fullSnapshot(1, "Ship",
		journal.CargoItem{Name: "Gold", Count: 3},
		journal.CargoItem{Name: "$gold_name;", Count: 4, Stolen: 2},
		journal.CargoItem{Name: "silver", Count: 1},
	))

	snap := e.Snapshot()

	// Uniqueness on (commodity, stolen): gold legit, gold stolen, silver legit
	require.Len(t, snap.Lines, 3)
	seen := make(map[[2]interface{}]bool)
	for _, line := range snap.Lines {
		id := [2]interface{}{line.Commodity.Symbol, line.Stolen}
		assert.False(t, seen[id], "duplicate (commodity, stolen) pair")
		seen[id] = true
		assert.GreaterOrEqual(t, line.Count, 0)
	}

	gold, ok := snap.Line("gold", false)
	require.True(t, ok)
	assert.Equal(t, 5, gold.Count)

	goldStolen, ok := snap.Line("gold", true)
	require.True(t, ok)
	assert.Equal(t, 2, goldStolen.Count)

	assert.Equal(t, 8, snap.Total())
}

func TestEngine_StolenClampNeverNegative(t *testing.T) {
	e := newTestEngine(t)

	e.HandleFullSnapshot(fullSnapshot(1, "Ship",
		journal.CargoItem{Name: "gold", Count: 2, Stolen: 5},
	))

	snap := e.Snapshot()
	for _, line := range snap.Lines {
		assert.GreaterOrEqual(t, line.Count, 0)
	}

	stolen, ok := snap.Line("gold", true)
	require.True(t, ok)
	assert.Equal(t, 2, stolen.Count)

	_, ok = snap.Line("gold", false)
	assert.False(t, ok)
}

func TestEngine_SameSecondSnapshotReplaces(t *testing.T) {
	e := newTestEngine(t)

	// Journal timestamps are second-granular: scooping several canisters
	// can produce distinct snapshots with equal timestamps. The later one
	// must win; only an identical redelivery is a no-op.
	e.HandleFullSnapshot(fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 5}))
	before := e.Snapshot()

	e.HandleFullSnapshot(fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 7}))

	snap := e.Snapshot()
	gold, ok := snap.Line("gold", false)
	require.True(t, ok)
	assert.Equal(t, 7, gold.Count)
	assert.Greater(t, snap.Sequence, before.Sequence)
}

func TestEngine_SnapshotRecordsMissionAttribution(t *testing.T) {
	e := newTestEngine(t)

	e.HandleMissionAccepted(journal.MissionAccepted{
		Timestamp: ts(1), MissionID: 7, Name: "Mission_Rescue_Station", Commodity: "thargoidpod", Count: 4,
	})
	e.HandleFullSnapshot(fullSnapshot(2, "Ship",
		journal.CargoItem{Name: "thargoidpod", Count: 4, MissionID: 7},
		journal.CargoItem{Name: "gold", Count: 2},
	))

	snap := e.Snapshot()
	require.Len(t, snap.Attributions, 1)
	assert.Equal(t, MissionAttribution{MissionID: 7, Symbol: "thargoidpod", Stolen: true, Count: 4}, snap.Attributions[0])

	// The attributed stock shows under its mission in the report
	report := e.Report()
	for _, line := range report.Lines {
		if line.Symbol != "thargoidpod" {
			continue
		}
		require.Len(t, line.Missions, 1)
		assert.Equal(t, int64(7), line.Missions[0].MissionID)
		assert.Equal(t, 4, line.Missions[0].Stolen)
		assert.Equal(t, 0, line.Stolen)
	}
}

func TestEngine_StaleSnapshotRejected(t *testing.T) {
	e := newTestEngine(t)

	e.HandleFullSnapshot(fullSnapshot(5, "Ship", journal.CargoItem{Name: "gold", Count: 5}))
	current := e.Snapshot()

	// A strictly older snapshot never goes backward
	e.HandleFullSnapshot(fullSnapshot(2, "Ship", journal.CargoItem{Name: "silver", Count: 1}))

	assert.Equal(t, current, e.Snapshot())
}

func TestEngine_ScenarioA_GenericDeltaStaysUnclassified(t *testing.T) {
	e := newTestEngine(t)

	e.HandleFullSnapshot(fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 5}))
	e.HandleCargoTotal(journal.CargoTotal{Timestamp: ts(2), Vessel: "Ship", Count: 3})

	snap := e.Snapshot()

	// The reduction is not guessed onto Gold; it lands in the bucket
	gold, ok := snap.Line("gold", false)
	require.True(t, ok)
	assert.Equal(t, 5, gold.Count)
	assert.Equal(t, -2, snap.Unclassified)
	assert.Equal(t, 3, snap.Total())

	// The full-confirmation marker still points at the snapshot event
	assert.Equal(t, ts(1), snap.LastConfirmed)
	assert.Equal(t, ts(2), snap.Timestamp)
}

func TestEngine_ScenarioB_MissionStolenTieBreak(t *testing.T) {
	e := newTestEngine(t)

	e.HandleMissionAccepted(journal.MissionAccepted{
		Timestamp: ts(1),
		MissionID: 42,
		Name:      "Mission_Salvage_Planet",
		Commodity: "$Painite_Name;",
		Count:     10,
	})
	e.HandleFullSnapshot(fullSnapshot(2, "Ship", journal.CargoItem{Name: "Painite", Count: 10}))

	// Mission 42 is active in the summary
	active := e.Missions()
	require.Len(t, active, 1)
	assert.Equal(t, int64(42), active[0].ID)
	assert.Equal(t, missions.StatusActive, active[0].Status)
	assert.True(t, active[0].Stolen)

	// The cached mission's stolen flag beats default-to-legitimate
	snap := e.Snapshot()
	stolen, ok := snap.Line("painite", true)
	require.True(t, ok)
	assert.Equal(t, 10, stolen.Count)
	_, ok = snap.Line("painite", false)
	assert.False(t, ok)
}

func TestEngine_MissionIDTieBreak(t *testing.T) {
	e := newTestEngine(t)

	e.HandleMissionAccepted(journal.MissionAccepted{
		Timestamp: ts(1),
		MissionID: 7,
		Name:      "Mission_Rescue_Station",
		Commodity: "thargoidpod",
		Count:     4,
	})

	// Item carries the mission id; commodity match is not needed
	e.HandleFullSnapshot(fullSnapshot(2, "Ship",
		journal.CargoItem{Name: "thargoidpod", Count: 4, MissionID: 7},
	))

	stolen, ok := e.Snapshot().Line("thargoidpod", true)
	require.True(t, ok)
	assert.Equal(t, 4, stolen.Count)
}

func TestEngine_ScenarioC_AuxiliaryVehicleCapacity(t *testing.T) {
	e := newTestEngine(t)

	e.HandleVehicleChange(journal.VehicleChange{Timestamp: ts(1), Vehicle: "scout_mk2"})

	// Capacity comes straight from the static table, no observation needed
	assert.Equal(t, VehicleContext{Vehicle: "scout_mk2", Auxiliary: true}, e.Vehicle())
	assert.Equal(t, capacity.Estimate{Value: 4, Confidence: capacity.ConfidenceExplicit}, e.Capacity())
}

func TestEngine_ScenarioD_SessionResetKeepsMissions(t *testing.T) {
	e := newTestEngine(t)

	e.HandleVehicleChange(journal.VehicleChange{Timestamp: ts(1), Vehicle: "Python"})
	e.HandleCapacity(journal.CapacityReport{Timestamp: ts(1), Ship: "Python", CargoCapacity: 192})
	e.HandleMissionAccepted(journal.MissionAccepted{
		Timestamp: ts(2), MissionID: 9, Name: "Mission_Collect_Industrial", Commodity: "gold", Count: 6,
	})
	e.HandleFullSnapshot(fullSnapshot(3, "Ship", journal.CargoItem{Name: "gold", Count: 6}))

	e.HandleSessionReset(journal.SessionReset{Timestamp: ts(4), Reason: "resurrect"})

	// Snapshot cleared
	snap := e.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Zero(t, snap.Unclassified)
	assert.True(t, snap.LastConfirmed.IsZero())

	// Missions retained
	require.Len(t, e.Missions(), 1)

	// Capacity persists for the known vehicle across a resurrect
	assert.Equal(t, capacity.Estimate{Value: 192, Confidence: capacity.ConfidenceExplicit}, e.Capacity())

	// A shutdown forgets the vehicle and resets estimation
	e.HandleSessionReset(journal.SessionReset{Timestamp: ts(5), Reason: "shutdown"})
	assert.Equal(t, VehicleContext{}, e.Vehicle())
	assert.Equal(t, capacity.Estimate{}, e.Capacity())
	require.Len(t, e.Missions(), 1)
}

func TestEngine_VehicleContextsNeverMerge(t *testing.T) {
	e := newTestEngine(t)

	e.HandleFullSnapshot(fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 10}))
	e.HandleFullSnapshot(fullSnapshot(2, "SRV", journal.CargoItem{Name: "silver", Count: 2}))

	ship := e.ShipSnapshot()
	srv := e.SRVSnapshot()

	_, ok := ship.Line("silver", false)
	assert.False(t, ok)
	_, ok = srv.Line("gold", false)
	assert.False(t, ok)

	assert.Equal(t, 10, ship.Total())
	assert.Equal(t, 2, srv.Total())
}

func TestEngine_CapacityObservationMonotonic(t *testing.T) {
	e := newTestEngine(t)

	e.HandleCargoTotal(journal.CargoTotal{Timestamp: ts(1), Vessel: "Ship", Count: 12})
	e.HandleCargoTotal(journal.CargoTotal{Timestamp: ts(2), Vessel: "Ship", Count: 4})

	// Observed-max never decreases
	assert.Equal(t, capacity.Estimate{Value: 12, Confidence: capacity.ConfidenceObservedMax}, e.Capacity())

	// Explicit wins and stays
	e.HandleCapacity(journal.CapacityReport{Timestamp: ts(3), Ship: "Adder", CargoCapacity: 6})
	e.HandleCargoTotal(journal.CargoTotal{Timestamp: ts(4), Vessel: "Ship", Count: 30})
	assert.Equal(t, capacity.Estimate{Value: 6, Confidence: capacity.ConfidenceExplicit}, e.Capacity())
}

func TestEngine_MissionTerminalAndDepot(t *testing.T) {
	e := newTestEngine(t)

	e.HandleMissionAccepted(journal.MissionAccepted{
		Timestamp: ts(1), MissionID: 5, Name: "Mission_Delivery_Boom", Commodity: "gold", Count: 16,
	})
	e.HandleCargoDepot(journal.CargoDepot{
		Timestamp: ts(2), MissionID: 5, UpdateType: "Deliver",
		CargoType: "Gold", ItemsDelivered: 4, TotalItemsToDeliver: 16,
	})

	m, ok := e.Mission(5)
	require.True(t, ok)
	assert.Equal(t, 12, m.Remaining)
	assert.True(t, m.Allocated)

	e.HandleMissionTerminal(journal.MissionTerminal{Timestamp: ts(3), MissionID: 5, Outcome: journal.OutcomeCompleted})

	// Terminal but retained for attribution
	m, ok = e.Mission(5)
	require.True(t, ok)
	assert.Equal(t, missions.StatusCompleted, m.Status)
	assert.Empty(t, e.Missions())
	assert.Len(t, e.AllMissions(), 1)

	// Depot for an untracked mission creates a placeholder
	e.HandleCargoDepot(journal.CargoDepot{
		Timestamp: ts(4), MissionID: 77, UpdateType: "Collect",
		CargoType: "$Silver_Name;", ItemsCollected: 2, TotalItemsToDeliver: 8,
	})
	m, ok = e.Mission(77)
	require.True(t, ok)
	assert.Equal(t, "silver", m.Commodity)
	assert.Equal(t, 8, m.Remaining)
}

func TestEngine_MissionsListPrunes(t *testing.T) {
	e := newTestEngine(t)

	e.HandleMissionAccepted(journal.MissionAccepted{Timestamp: ts(1), MissionID: 1, Name: "Mission_Collect", Commodity: "gold", Count: 2})
	e.HandleMissionAccepted(journal.MissionAccepted{Timestamp: ts(1), MissionID: 2, Name: "Mission_Collect", Commodity: "silver", Count: 2})

	e.HandleMissionsList(journal.MissionsList{Timestamp: ts(2), ActiveIDs: []int64{2}})

	_, ok := e.Mission(1)
	assert.False(t, ok)
	_, ok = e.Mission(2)
	assert.True(t, ok)
}

func TestEngine_OnFootMissionIgnored(t *testing.T) {
	e := newTestEngine(t)

	e.HandleMissionAccepted(journal.MissionAccepted{
		Timestamp: ts(1), MissionID: 3, Name: "Mission_OnFoot_Collect_001", Commodity: "gold", Count: 2,
	})

	_, ok := e.Mission(3)
	assert.False(t, ok)
}

func TestEngine_SubscribeNotify(t *testing.T) {
	e := newTestEngine(t)

	id, ch := e.Subscribe()
	defer e.Unsubscribe(id)

	e.HandleFullSnapshot(fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 1}))

	select {
	case <-ch:
	default:
		t.Fatal("expected change notification")
	}

	// Coalescing: many changes, at most one pending signal
	e.HandleCargoTotal(journal.CargoTotal{Timestamp: ts(2), Vessel: "Ship", Count: 5})
	e.HandleCargoTotal(journal.CargoTotal{Timestamp: ts(3), Vessel: "Ship", Count: 2})
	<-ch
	select {
	case <-ch:
		t.Fatal("expected coalesced notification")
	default:
	}
}

func TestEngine_FacadeReturnsCopies(t *testing.T) {
	e := newTestEngine(t)
	e.HandleFullSnapshot(fullSnapshot(1, "Ship", journal.CargoItem{Name: "gold", Count: 5}))

	snap := e.Snapshot()
	snap.Lines[0].Count = 999

	fresh := e.Snapshot()
	assert.Equal(t, 5, fresh.Lines[0].Count)
}

func TestEngine_DockSRVRestoresShipContext(t *testing.T) {
	e := newTestEngine(t)

	e.HandleVehicleChange(journal.VehicleChange{Timestamp: ts(1), Vehicle: "Python"})
	e.HandleVehicleChange(journal.VehicleChange{Timestamp: ts(2), Vehicle: "testbuggy"})
	assert.True(t, e.Vehicle().Auxiliary)

	e.HandleVehicleChange(journal.VehicleChange{Timestamp: ts(3), ToShip: true})
	assert.Equal(t, VehicleContext{Vehicle: "python"}, e.Vehicle())
}
