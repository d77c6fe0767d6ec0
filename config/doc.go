// Package config loads the store configuration from YAML and environment
// variables.
package config
