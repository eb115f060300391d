package journal

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed journal.schema.json
var envelopeSchemaJSON string

// envelopeSchema validates the record envelope (event name + timestamp)
// before any typed decoding happens. Records failing it are malformed and
// must be dropped without touching state.
var envelopeSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.AssertFormat = true
	if err := c.AddResource("journal.schema.json", bytes.NewReader([]byte(envelopeSchemaJSON))); err != nil {
		panic(err)
	}
	return c.MustCompile("journal.schema.json")
}()

type rawCargoItem struct {
	Name          string `json:"Name"`
	NameLocalised string `json:"Name_Localised"`
	Count         int    `json:"Count"`
	Stolen        int    `json:"Stolen"`
	MissionID     int64  `json:"MissionID"`
}

type rawCargo struct {
	Timestamp string          `json:"timestamp"`
	Vessel    string          `json:"Vessel"`
	Count     int             `json:"Count"`
	Inventory *[]rawCargoItem `json:"Inventory"`
}

type rawMissionAccepted struct {
	Timestamp          string `json:"timestamp"`
	MissionID          int64  `json:"MissionID"`
	Name               string `json:"Name"`
	Commodity          string `json:"Commodity"`
	CommodityLocalised string `json:"Commodity_Localised"`
	Count              int    `json:"Count"`
}

type rawMissionTerminal struct {
	Timestamp string `json:"timestamp"`
	MissionID int64  `json:"MissionID"`
}

type rawMissions struct {
	Timestamp string `json:"timestamp"`
	Active    []struct {
		MissionID int64 `json:"MissionID"`
	} `json:"Active"`
}

type rawCargoDepot struct {
	Timestamp           string `json:"timestamp"`
	MissionID           int64  `json:"MissionID"`
	UpdateType          string `json:"UpdateType"`
	CargoType           string `json:"CargoType"`
	CargoTypeLocalised  string `json:"CargoType_Localised"`
	Count               int    `json:"Count"`
	ItemsCollected      int    `json:"ItemsCollected"`
	ItemsDelivered      int    `json:"ItemsDelivered"`
	TotalItemsToDeliver int    `json:"TotalItemsToDeliver"`
}

type rawLoadout struct {
	Timestamp     string `json:"timestamp"`
	Ship          string `json:"Ship"`
	CargoCapacity int    `json:"CargoCapacity"`
}

type rawVehicle struct {
	Timestamp string `json:"timestamp"`
	Ship      string `json:"Ship"`
	SRVType   string `json:"SRVType"`
}

// Parse turns one raw journal line into a typed event.
//
// Returns (nil, nil) for blank lines and event kinds the engine does not
// track. Returns an error for malformed records: invalid JSON, a failed
// envelope check, or missing required fields. Callers log and drop those.
func Parse(line []byte) (Event, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var envelope any
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("invalid journal record: %w", err)
	}
	if err := envelopeSchema.Validate(envelope); err != nil {
		return nil, fmt.Errorf("journal record failed validation: %w", err)
	}

	record := envelope.(map[string]any)
	name := record["event"].(string)
	ts, err := time.Parse(time.RFC3339, record["timestamp"].(string))
	if err != nil {
		return nil, fmt.Errorf("journal record has invalid timestamp: %w", err)
	}

	switch name {
	case "Cargo":
		var r rawCargo
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid Cargo record: %w", err)
		}
		vessel := r.Vessel
		if vessel == "" {
			vessel = "Ship"
		}
		if r.Inventory == nil {
			return CargoTotal{Timestamp: ts, Vessel: vessel, Count: r.Count}, nil
		}
		items := make([]CargoItem, 0, len(*r.Inventory))
		for _, it := range *r.Inventory {
			if it.Name == "" || it.Count < 0 {
				return nil, fmt.Errorf("invalid Cargo inventory item: %q", it.Name)
			}
			items = append(items, CargoItem(it))
		}
		return CargoSnapshot{Timestamp: ts, Vessel: vessel, Count: r.Count, Inventory: items}, nil

	case "MissionAccepted":
		var r rawMissionAccepted
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid MissionAccepted record: %w", err)
		}
		if r.MissionID == 0 || r.Name == "" {
			return nil, fmt.Errorf("MissionAccepted record missing mission identity")
		}
		return MissionAccepted{
			Timestamp:          ts,
			MissionID:          r.MissionID,
			Name:               r.Name,
			Commodity:          r.Commodity,
			CommodityLocalised: r.CommodityLocalised,
			Count:              r.Count,
		}, nil

	case "MissionCompleted", "MissionAbandoned", "MissionFailed":
		var r rawMissionTerminal
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid %s record: %w", name, err)
		}
		if r.MissionID == 0 {
			return nil, fmt.Errorf("%s record missing mission identity", name)
		}
		outcome := OutcomeCompleted
		switch name {
		case "MissionAbandoned":
			outcome = OutcomeAbandoned
		case "MissionFailed":
			outcome = OutcomeExpired
		}
		return MissionTerminal{Timestamp: ts, MissionID: r.MissionID, Outcome: outcome}, nil

	case "Missions":
		var r rawMissions
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid Missions record: %w", err)
		}
		ids := make([]int64, 0, len(r.Active))
		for _, m := range r.Active {
			ids = append(ids, m.MissionID)
		}
		return MissionsList{Timestamp: ts, ActiveIDs: ids}, nil

	case "CargoDepot":
		var r rawCargoDepot
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid CargoDepot record: %w", err)
		}
		if r.MissionID == 0 || r.CargoType == "" {
			return nil, fmt.Errorf("CargoDepot record missing mission cargo identity")
		}
		return CargoDepot{
			Timestamp:           ts,
			MissionID:           r.MissionID,
			UpdateType:          r.UpdateType,
			CargoType:           r.CargoType,
			CargoTypeLocalised:  r.CargoTypeLocalised,
			Count:               r.Count,
			ItemsCollected:      r.ItemsCollected,
			ItemsDelivered:      r.ItemsDelivered,
			TotalItemsToDeliver: r.TotalItemsToDeliver,
		}, nil

	case "Loadout":
		var r rawLoadout
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid Loadout record: %w", err)
		}
		if r.Ship == "" {
			return nil, fmt.Errorf("Loadout record missing ship")
		}
		return CapacityReport{Timestamp: ts, Ship: r.Ship, CargoCapacity: r.CargoCapacity}, nil

	case "LoadGame":
		var r rawVehicle
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid LoadGame record: %w", err)
		}
		return VehicleChange{Timestamp: ts, Vehicle: r.Ship}, nil

	case "LaunchSRV":
		var r rawVehicle
		if err := json.Unmarshal(trimmed, &r); err != nil {
			return nil, fmt.Errorf("invalid LaunchSRV record: %w", err)
		}
		if r.SRVType == "" {
			// Older journals predate SRVType; the classic buggy is implied.
			r.SRVType = "testbuggy"
		}
		return VehicleChange{Timestamp: ts, Vehicle: r.SRVType}, nil

	case "DockSRV":
		return VehicleChange{Timestamp: ts, ToShip: true}, nil

	case "Resurrect":
		return SessionReset{Timestamp: ts, Reason: "resurrect"}, nil

	case "Shutdown", "ShutDown":
		return SessionReset{Timestamp: ts, Reason: "shutdown"}, nil
	}

	// Unrecognized events are not malformed, just irrelevant.
	return nil, nil
}

// ParseCargoFile parses a Cargo.json status file, which shares the shape of
// a full Cargo journal event. Used to seed state at startup when no journal
// backfill is available.
func ParseCargoFile(data []byte) (CargoSnapshot, error) {
	ev, err := Parse(data)
	if err != nil {
		return CargoSnapshot{}, err
	}
	snap, ok := ev.(CargoSnapshot)
	if !ok {
		return CargoSnapshot{}, fmt.Errorf("cargo file is not a full snapshot")
	}
	return snap, nil
}
