// Package config loads environment-based configuration into tagged structs.
//
// Packages in this module declare their settings as structs with `env` tags
// (see tenant.PostgresConfig, resolver.RedisConfig); applications load them
// at startup:
//
//	var cfg tenant.PostgresConfig
//	config.MustLoad(&cfg)
//
// A .env file in the working directory is loaded once per process, if present.
package config
