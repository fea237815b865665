// Package config loads opsdash settings from the environment.
//
// Load reads an optional .env file through godotenv, applies defaults for
// every unset variable, and expands ${VAR} references in path settings.
// Malformed values are reported instead of silently replaced by defaults.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	obsCfg := cfg.Observe()
package config
