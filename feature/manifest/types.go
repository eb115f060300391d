package manifest

import (
	"sort"
	"time"

	"github.com/kitlaan/edmc-cargo-manifest/feature/commodity"
)

// CargoLine is one aggregated entry of an inventory snapshot. Lines are
// unique on (commodity symbol, stolen flag); the same commodity appears at
// most twice, once legitimate and once stolen.
type CargoLine struct {
	Commodity commodity.Key `json:"commodity"`
	Count     int           `json:"count"`
	Stolen    bool          `json:"stolen"`
}

// MissionAttribution is cargo a snapshot item explicitly tied to a mission.
// Carried alongside the aggregated lines, it lets the report carve the
// item's count out for its mission before any greedy allocation.
type MissionAttribution struct {
	MissionID int64  `json:"mission_id"`
	Symbol    string `json:"symbol"`
	Stolen    bool   `json:"stolen"`
	Count     int    `json:"count"`
}

// Snapshot is the reconciled inventory of one vehicle context.
type Snapshot struct {
	// Lines are the classified cargo entries, sorted by symbol then flag.
	Lines []CargoLine `json:"lines"`

	// Attributions are per-item mission associations observed in the
	// snapshot event, sorted by mission then symbol then flag.
	Attributions []MissionAttribution `json:"attributions,omitempty"`

	// Unclassified is the net cargo change that could not be attributed to
	// a specific commodity. Generic-delta events land here rather than
	// being guessed onto a line; it can be negative.
	Unclassified int `json:"unclassified"`

	// Sequence increases on every accepted change.
	Sequence uint64 `json:"sequence"`

	// Timestamp is the source-event time of the last accepted change.
	Timestamp time.Time `json:"timestamp"`

	// LastConfirmed is the source-event time of the last full snapshot.
	// Consumers use it to show staleness instead of confidently wrong
	// totals when the event source goes quiet.
	LastConfirmed time.Time `json:"last_confirmed"`
}

// Classified returns the total units across classified lines.
func (s Snapshot) Classified() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Count
	}
	return total
}

// Total returns the best current estimate of units held, classified lines
// plus the unclassified bucket.
func (s Snapshot) Total() int {
	return s.Classified() + s.Unclassified
}

// Line returns the entry for a (symbol, stolen) pair, if present.
func (s Snapshot) Line(symbol string, stolen bool) (CargoLine, bool) {
	for _, line := range s.Lines {
		if line.Commodity.Symbol == symbol && line.Stolen == stolen {
			return line, true
		}
	}
	return CargoLine{}, false
}

// clone returns a deep copy safe to hand outside the engine lock.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Lines = make([]CargoLine, len(s.Lines))
	copy(out.Lines, s.Lines)
	out.Attributions = make([]MissionAttribution, len(s.Attributions))
	copy(out.Attributions, s.Attributions)
	return out
}

// contentEqual reports whether two snapshots hold the same reconciled cargo.
// Both sides are sorted by construction, so slice order is canonical.
func (s Snapshot) contentEqual(other Snapshot) bool {
	if len(s.Lines) != len(other.Lines) || len(s.Attributions) != len(other.Attributions) {
		return false
	}
	for i := range s.Lines {
		if s.Lines[i] != other.Lines[i] {
			return false
		}
	}
	for i := range s.Attributions {
		if s.Attributions[i] != other.Attributions[i] {
			return false
		}
	}
	return true
}

func sortAttributions(attrs []MissionAttribution) {
	sort.Slice(attrs, func(i, j int) bool {
		if attrs[i].MissionID != attrs[j].MissionID {
			return attrs[i].MissionID < attrs[j].MissionID
		}
		if attrs[i].Symbol != attrs[j].Symbol {
			return attrs[i].Symbol < attrs[j].Symbol
		}
		return !attrs[i].Stolen && attrs[j].Stolen
	})
}

func sortLines(lines []CargoLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Commodity.Symbol != lines[j].Commodity.Symbol {
			return lines[i].Commodity.Symbol < lines[j].Commodity.Symbol
		}
		return !lines[i].Stolen && lines[j].Stolen
	})
}

// VehicleContext identifies which cargo-bearing vehicle is current.
type VehicleContext struct {
	// Vehicle is the canonical vehicle identifier, empty when unknown.
	Vehicle string `json:"vehicle"`
	// Auxiliary is true for SRV-class vehicles from the capacity table.
	Auxiliary bool `json:"auxiliary"`
}
