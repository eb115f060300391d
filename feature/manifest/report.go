package manifest

import (
	"sort"

	"github.com/kitlaan/edmc-cargo-manifest/feature/missions"
)

// MissionAllocation is the share of a commodity's stock allocated to one
// mission, alongside what that mission still needs.
type MissionAllocation struct {
	MissionID int64 `json:"mission_id"`
	// Count and Stolen are units of current stock allocated to the mission.
	Count  int `json:"count"`
	Stolen int `json:"stolen"`
	// CountNeed/StolenNeed are the outstanding requirements, nil when the
	// mission does not demand that classification.
	CountNeed  *int `json:"count_need,omitempty"`
	StolenNeed *int `json:"stolen_need,omitempty"`
}

// ReportLine is one commodity of the manifest report, with mission
// allocations carved out of the held stock.
type ReportLine struct {
	Symbol  string `json:"symbol"`
	Display string `json:"display"`
	Rare    bool   `json:"rare"`
	// Count and Stolen are the units not allocated to any mission.
	Count    int                 `json:"count"`
	Stolen   int                 `json:"stolen"`
	Missions []MissionAllocation `json:"missions,omitempty"`
}

// Report is the display-ready manifest: held cargo with mission demands
// allocated against it.
type Report struct {
	Lines        []ReportLine `json:"lines"`
	Unclassified int          `json:"unclassified,omitempty"`
	Total        int          `json:"total"`
}

// BuildReport merges an inventory snapshot with the active mission set.
// Cargo the snapshot explicitly tied to a mission is carved out for that
// mission first; the rest of the held stock is then allocated greedily
// against each mission's outstanding need, in mission-id order, so the
// display can distinguish "have for mission" from "have spare" from
// "still need".
func BuildReport(snap Snapshot, active []missions.Mission) Report {
	type entry struct {
		line     ReportLine
		haveHint bool
		allocs   map[int64]int
	}
	byName := make(map[string]*entry)

	get := func(symbol string) *entry {
		en, ok := byName[symbol]
		if !ok {
			en = &entry{
				line:   ReportLine{Symbol: symbol},
				allocs: make(map[int64]int),
			}
			byName[symbol] = en
		}
		return en
	}

	allocFor := func(en *entry, missionID int64) *MissionAllocation {
		idx, ok := en.allocs[missionID]
		if !ok {
			en.line.Missions = append(en.line.Missions, MissionAllocation{MissionID: missionID})
			idx = len(en.line.Missions) - 1
			en.allocs[missionID] = idx
		}
		return &en.line.Missions[idx]
	}

	for _, l := range snap.Lines {
		en := get(l.Commodity.Symbol)
		if l.Stolen {
			en.line.Stolen += l.Count
		} else {
			en.line.Count += l.Count
		}
		if !en.haveHint {
			en.line.Display = l.Commodity.Display()
			en.line.Rare = l.Commodity.Rare()
			en.haveHint = true
		}
	}

	// Item-level mission associations bind stock to their mission before
	// any need-based allocation.
	for _, attr := range snap.Attributions {
		en := get(attr.Symbol)
		alloc := allocFor(en, attr.MissionID)
		if attr.Stolen {
			take := min(en.line.Stolen, attr.Count)
			en.line.Stolen -= take
			alloc.Stolen += take
		} else {
			take := min(en.line.Count, attr.Count)
			en.line.Count -= take
			alloc.Count += take
		}
	}

	for _, m := range active {
		en := get(m.Commodity)
		// A mission's localized name is sometimes the only localization
		// around: cargo events may carry the bare symbol while the mission
		// carries the display string.
		if !en.haveHint && m.Localised != "" {
			en.line.Display = m.Localised
			en.haveHint = true
		}

		alloc := allocFor(en, m.ID)
		need := m.Remaining
		if m.Stolen {
			alloc.StolenNeed = &need
			if outstanding := need - alloc.Stolen; outstanding > 0 {
				take := min(en.line.Stolen, outstanding)
				en.line.Stolen -= take
				alloc.Stolen += take
			}
		} else {
			alloc.CountNeed = &need
			if outstanding := need - alloc.Count; outstanding > 0 {
				take := min(en.line.Count, outstanding)
				en.line.Count -= take
				alloc.Count += take
			}
		}
	}

	report := Report{
		Unclassified: snap.Unclassified,
		Total:        snap.Total(),
	}
	for symbol, en := range byName {
		if en.line.Display == "" {
			en.line.Display = symbol
		}
		sort.Slice(en.line.Missions, func(i, j int) bool {
			return en.line.Missions[i].MissionID < en.line.Missions[j].MissionID
		})
		report.Lines = append(report.Lines, en.line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].Display < report.Lines[j].Display
	})

	return report
}
