package capacity

// Config holds configuration for the auxiliary vehicle capacity table.
type Config struct {
	// Table is an optional YAML file overlaying the embedded vehicle table.
	// Entries override or extend the defaults; the file shares the embedded
	// format (a top-level "vehicles" map of identifier to capacity).
	Table string `mapstructure:"table" default:""`
}
