// Package config loads and validates the bridge's YAML configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file, then
// GRAYLOGIC_* environment variables, validated as a whole at the end.
// Secrets (broker credentials) belong in the environment, not the file.
package config
