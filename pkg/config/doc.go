// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: .env files
// are loaded into the process environment, then structs are parsed from their
// `env` field tags. Every parsed struct is cached per type and variable prefix,
// so repeated loads are cheap.
//
// The store backends use prefixes to keep several configurations of the same
// shape apart:
//
//	var cfg redisstore.Config
//	if err := config.LoadWithPrefix(&cfg, "AUDIT_"); err != nil {
//	    return err
//	}
//
// Use ResetCache or ForceReload in tests after changing the environment.
package config
