package journal

// Config holds configuration for the journal intake.
type Config struct {
	// Dir is the directory containing Journal*.log files and Cargo.json.
	Dir string `mapstructure:"dir" default:""`
	// PollMillis is the tailer poll interval in milliseconds. The journal
	// is an append-only file the game flushes at its own pace; polling is
	// the only portable way to follow it.
	PollMillis int `mapstructure:"poll_millis" default:"1000"`
}
