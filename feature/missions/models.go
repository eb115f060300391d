package missions

import "time"

// Status is the lifecycle state of a tracked mission.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
	StatusExpired   Status = "expired"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusAbandoned, StatusExpired:
		return true
	default:
		return false
	}
}

// Mission is a cargo commitment implied by an accepted mission. It persists
// across sessions, but is only as complete as what was observed while the
// engine was running: missions accepted while the engine was down are
// permanently unknown to the cache.
type Mission struct {
	// ID is the journal mission identifier.
	ID int64 `gorm:"column:mission_id;primaryKey" json:"mission_id"`

	// Commodity is the canonical symbol of the required cargo.
	Commodity string `gorm:"column:commodity" json:"commodity"`

	// Localised is the display name of the commodity, when the journal
	// provided one.
	Localised string `gorm:"column:localised" json:"localised,omitempty"`

	// Total is the full quantity the mission demands.
	Total int `gorm:"column:total" json:"total"`

	// Remaining is the quantity still to deliver.
	Remaining int `gorm:"column:remaining" json:"remaining"`

	// Stolen marks missions whose cargo counts as stolen goods.
	Stolen bool `gorm:"column:stolen" json:"stolen"`

	// Allocated marks missions whose cargo is allocated on acceptance
	// (delivery missions) rather than collected by the player.
	Allocated bool `gorm:"column:allocated" json:"allocated"`

	// Status is the lifecycle state. Terminal missions are retained so a
	// late cargo-reduction event can still be attributed to them.
	Status Status `gorm:"column:status" json:"status"`

	// UpdatedAt is maintained by GORM on every save.
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName implements the GORM table-name override.
func (Mission) TableName() string {
	return "missions"
}
