// Package config loads application configuration from the environment with
// an optional YAML file base. All settings carry sane defaults except the
// database URL and the JWT signing secret, which must be provided.
package config
