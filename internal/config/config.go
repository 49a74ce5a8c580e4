package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Hashing  HashingConfig  `mapstructure:"hashing"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// DatabaseConfig contains the connection target and pool sizing.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// MaxConns is the hard upper bound on open connections.
	MaxConns int32 `mapstructure:"max_conns" validate:"required,gt=0"`
	// AcquireTimeout bounds how long a request waits for a free connection.
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" validate:"required"`
	// ConnectRetries is how many times startup retries the first ping.
	ConnectRetries uint64 `mapstructure:"connect_retries" validate:"lte=20"`
}

// HashingConfig contains the argon2id cost parameters.
type HashingConfig struct {
	Time      uint32 `mapstructure:"time"       validate:"required,gt=0,lte=64"`
	MemoryKiB uint32 `mapstructure:"memory_kib" validate:"required,gte=8"`
	Threads   uint8  `mapstructure:"threads"    validate:"required,gt=0"`
}
