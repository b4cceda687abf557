// Package config loads environment variables into typed structs using
// github.com/caarlos0/env struct tags, optionally seeded from a .env file.
//
// Two entry points are provided:
//
//   - Load parses a struct type once per process and serves later calls for the
//     same type from a cache. Use it for application settings that must stay
//     stable for the lifetime of the process.
//   - Parse re-reads the environment on every call. The database config resolver
//     relies on it so that each connection attempt observes the current values.
//
// Both functions load the default .env file (if present) on first use; values
// already present in the process environment win over the file.
//
// # Usage
//
//	type HTTPConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg HTTPConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Errors wrap ErrParsingConfig so callers can use errors.Is.
package config
