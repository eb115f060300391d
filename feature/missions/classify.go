package missions

import "strings"

// Classification is the cargo policy implied by a mission's type name.
type Classification struct {
	// Tracked is false for mission kinds that never carry ship cargo.
	Tracked bool
	// Stolen marks mission kinds whose cargo counts as stolen goods.
	Stolen bool
	// Allocated marks mission kinds whose cargo is allocated on acceptance.
	Allocated bool
}

// Classify derives the cargo policy from a journal mission name such as
// "Mission_Delivery_Boom". Cargo-bearing mission families:
//
//	Mission_Altruism
//	Mission_Collect*
//	Mission_Delivery*  (allocated)
//	Mission_Mining*
//	Mission_Rescue*    (stolen)
//	Mission_Salvage*   (stolen)
//
// The stolen mapping for rescue/salvage follows observed journal behavior
// but has not been verified for every mission kind against live data;
// corrections belong here and nowhere else.
func Classify(missionName string) Classification {
	name := strings.ToLower(missionName)

	if strings.HasPrefix(name, "mission_onfoot_") || strings.HasPrefix(name, "mission_sightseeing_") {
		return Classification{}
	}

	return Classification{
		Tracked:   true,
		Stolen:    strings.HasPrefix(name, "mission_rescue") || strings.HasPrefix(name, "mission_salvage"),
		Allocated: strings.HasPrefix(name, "mission_delivery"),
	}
}
