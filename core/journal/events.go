package journal

import "time"

// Event is a typed journal event recognized by the engine.
type Event interface {
	// EventName returns the journal event name for logging.
	EventName() string
	// When returns the source-event timestamp.
	When() time.Time
}

// Handler receives typed events, one entry point per recognized kind.
// Delivery is synchronous and single-threaded: the host calls these in
// arrival order and each call completes before the next begins.
type Handler interface {
	HandleFullSnapshot(CargoSnapshot)
	HandleCargoTotal(CargoTotal)
	HandleMissionAccepted(MissionAccepted)
	HandleMissionTerminal(MissionTerminal)
	HandleMissionsList(MissionsList)
	HandleCargoDepot(CargoDepot)
	HandleCapacity(CapacityReport)
	HandleVehicleChange(VehicleChange)
	HandleSessionReset(SessionReset)
}

// CargoItem is one inventory line of a full cargo snapshot.
type CargoItem struct {
	Name          string
	NameLocalised string
	Count         int
	Stolen        int
	MissionID     int64
}

// CargoSnapshot enumerates the complete cargo hold of one vessel.
// This is the authoritative snapshot-style event.
type CargoSnapshot struct {
	Timestamp time.Time
	Vessel    string
	Count     int
	Inventory []CargoItem
}

func (CargoSnapshot) EventName() string { return "Cargo" }
func (e CargoSnapshot) When() time.Time { return e.Timestamp }

// CargoTotal is a generic-delta event: a running cargo total without an
// inventory enumeration.
type CargoTotal struct {
	Timestamp time.Time
	Vessel    string
	Count     int
}

func (CargoTotal) EventName() string { return "Cargo" }
func (e CargoTotal) When() time.Time { return e.Timestamp }

// MissionAccepted announces a newly accepted mission and its cargo
// commitment, if any.
type MissionAccepted struct {
	Timestamp          time.Time
	MissionID          int64
	Name               string
	Commodity          string
	CommodityLocalised string
	Count              int
}

func (MissionAccepted) EventName() string { return "MissionAccepted" }
func (e MissionAccepted) When() time.Time { return e.Timestamp }

// Outcome is the terminal state reported for a mission.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAbandoned Outcome = "abandoned"
	OutcomeExpired   Outcome = "expired"
)

// MissionTerminal reports a mission reaching a terminal state.
type MissionTerminal struct {
	Timestamp time.Time
	MissionID int64
	Outcome   Outcome
}

func (MissionTerminal) EventName() string { return "MissionTerminal" }
func (e MissionTerminal) When() time.Time { return e.Timestamp }

// MissionsList is the authoritative enumeration of active mission IDs.
// It carries no mission details, only identifiers.
type MissionsList struct {
	Timestamp time.Time
	ActiveIDs []int64
}

func (MissionsList) EventName() string { return "Missions" }
func (e MissionsList) When() time.Time { return e.Timestamp }

// CargoDepot reports progress on a wing/cargo depot mission, including
// partial deliveries.
type CargoDepot struct {
	Timestamp           time.Time
	MissionID           int64
	UpdateType          string
	CargoType           string
	CargoTypeLocalised  string
	Count               int
	ItemsCollected      int
	ItemsDelivered      int
	TotalItemsToDeliver int
}

func (CargoDepot) EventName() string { return "CargoDepot" }
func (e CargoDepot) When() time.Time { return e.Timestamp }

// CapacityReport is an authoritative cargo capacity statement for the
// current ship (a Loadout event).
type CapacityReport struct {
	Timestamp     time.Time
	Ship          string
	CargoCapacity int
}

func (CapacityReport) EventName() string { return "Loadout" }
func (e CapacityReport) When() time.Time { return e.Timestamp }

// VehicleChange reports the player moving between cargo-bearing vehicles.
// ToShip is set when returning to the main ship without naming it (docking
// an SRV); Vehicle is empty in that case.
type VehicleChange struct {
	Timestamp time.Time
	Vehicle   string
	ToShip    bool
}

func (VehicleChange) EventName() string { return "VehicleChange" }
func (e VehicleChange) When() time.Time { return e.Timestamp }

// SessionReset clears inventory tracking (resurrection or game shutdown).
type SessionReset struct {
	Timestamp time.Time
	Reason    string
}

func (SessionReset) EventName() string { return "SessionReset" }
func (e SessionReset) When() time.Time { return e.Timestamp }

// Dispatch routes a typed event to the matching handler entry point.
func Dispatch(h Handler, ev Event) {
	switch e := ev.(type) {
	case CargoSnapshot:
		h.HandleFullSnapshot(e)
	case CargoTotal:
		h.HandleCargoTotal(e)
	case MissionAccepted:
		h.HandleMissionAccepted(e)
	case MissionTerminal:
		h.HandleMissionTerminal(e)
	case MissionsList:
		h.HandleMissionsList(e)
	case CargoDepot:
		h.HandleCargoDepot(e)
	case CapacityReport:
		h.HandleCapacity(e)
	case VehicleChange:
		h.HandleVehicleChange(e)
	case SessionReset:
		h.HandleSessionReset(e)
	}
}
