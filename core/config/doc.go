// Package config handles application configuration loading.
//
// Configuration is assembled from partial configs owned by the packages they
// configure (server, logger, cache, journal, data, vehicles). Values come from
// environment variables, optionally seeded from a .env file via godotenv.
//
// Defaults are declared as struct tags on the partial config types and bound
// into Viper by reflection, so a package adding a new setting only has to tag
// its own struct.
//
// # Environment Mapping
//
// Nested keys map to underscore-separated environment variables:
//
//	server.port   -> SERVER_PORT
//	cache.path    -> CACHE_PATH
//	journal.dir   -> JOURNAL_DIR
package config
