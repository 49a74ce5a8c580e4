// Package config loads, parses, and validates application settings from
// environment variables and an optional YAML file. It provides type-safe
// access to server, database pool, and credential hashing settings while
// keeping configuration details separate from business logic.
package config
