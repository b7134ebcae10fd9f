// Package config provides configuration management for leads.
//
// It wraps the configuration of other packages to provide a single API for
// loading, validating, and writing configuration files in YAML format.
package config
