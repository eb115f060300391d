package database

// Config holds configuration for the mission cache database.
type Config struct {
	// Path is the SQLite file backing the cache. Use ":memory:" for an
	// ephemeral cache that does not survive restarts.
	Path string `mapstructure:"path" default:"missions.db"`
}
