// Package config loads service configuration with Viper.
//
// LoadConfig reads a YAML file, a .env file and the process environment, in
// that order of increasing precedence, and unmarshals the result into a
// struct that usually embeds ServiceConfig:
//
//	var cfg Config
//	if err := config.LoadConfig("seqquery", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
//
// Environment variables are matched against nested keys by splitting on
// underscores, so SEQQUERY_SERVER_PORT sets server.port. Only variables
// carrying the service prefix are considered.
package config
