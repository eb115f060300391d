package server

// Config holds configuration for the query facade HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8408"`
	// Enabled toggles the HTTP surface. When false the engine still runs
	// and display collaborators must use the in-process facade.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// ApiKey is an optional secret required to access the API.
	// When empty, the API is open (local-only deployments).
	ApiKey string `mapstructure:"api_key" default:""`
}
