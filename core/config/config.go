package config

import (
	"reflect"
	"strings"

	"github.com/kitlaan/edmc-cargo-manifest/core/database"
	"github.com/kitlaan/edmc-cargo-manifest/core/journal"
	"github.com/kitlaan/edmc-cargo-manifest/core/logger"
	"github.com/kitlaan/edmc-cargo-manifest/core/server"
	"github.com/kitlaan/edmc-cargo-manifest/feature/capacity"
	"github.com/kitlaan/edmc-cargo-manifest/feature/commodity"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages they configure.
type Config struct {
	// Server holds configuration for the query facade HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Cache holds configuration for the persisted mission cargo cache.
	Cache database.Config `mapstructure:"cache"`
	// Journal holds configuration for the journal intake.
	Journal journal.Config `mapstructure:"journal"`
	// Data holds configuration for the commodity index files.
	Data commodity.Config `mapstructure:"data"`
	// Vehicles holds configuration for the auxiliary vehicle capacity table.
	Vehicles capacity.Config `mapstructure:"vehicles"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
