// Package config loads cmdutil configuration.
//
// Values come from a YAML file, an optional .env file and CMDUTIL_-prefixed
// environment variables, in increasing order of precedence. Nested keys map
// to underscore-separated variable names, so CMDUTIL_PROCESS_TIMEOUT sets
// process.timeout.
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile("cmdutil.yml"))
package config
