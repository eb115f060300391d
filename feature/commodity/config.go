package commodity

// Config holds configuration for the commodity index files.
type Config struct {
	// Dir is the directory containing commodity.csv and rare_commodity.csv.
	Dir string `mapstructure:"dir" default:"FDevIDs"`
}
