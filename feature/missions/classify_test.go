package missions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		mission  string
		expected Classification
	}{
		{
			name:     "Delivery is allocated",
			mission:  "Mission_Delivery_Boom",
			expected: Classification{Tracked: true, Allocated: true},
		},
		{
			name:     "Rescue is stolen",
			mission:  "Mission_Rescue_Planet",
			expected: Classification{Tracked: true, Stolen: true},
		},
		{
			name:     "Salvage is stolen",
			mission:  "Mission_Salvage_Refinery",
			expected: Classification{Tracked: true, Stolen: true},
		},
		{
			name:     "Collect is plain cargo",
			mission:  "Mission_Collect_Industrial",
			expected: Classification{Tracked: true},
		},
		{
			name:     "Altruism is plain cargo",
			mission:  "Mission_Altruism",
			expected: Classification{Tracked: true},
		},
		{
			name:     "On-foot missions carry no ship cargo",
			mission:  "Mission_OnFoot_Collect_001",
			expected: Classification{},
		},
		{
			name:     "Sightseeing carries no cargo",
			mission:  "Mission_Sightseeing_Criminal_BOOM",
			expected: Classification{},
		},
		{
			name:     "Case insensitive",
			mission:  "MISSION_DELIVERY_RANK_EMP",
			expected: Classification{Tracked: true, Allocated: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.mission))
		})
	}
}
