// Package config loads the service configuration.
//
// Two static documents live next to the binary: config-dev.json and
// config-prod.json. The prod document is chosen whenever the hosting platform
// assigns a port through the PORT environment variable.
package config

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	StaticDir string `mapstructure:"static_dir" validate:"required"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects and addresses the store.
type DatabaseConfig struct {
	Driver           string `mapstructure:"driver" validate:"required,oneof=mongodb postgres sqlite memory"`
	ConnectionString string `mapstructure:"connection_string" validate:"required_unless=Driver memory"`
	Name             string `mapstructure:"name" validate:"required_if=Driver mongodb"`
}

// RabbitMQConfig configures product event publishing. An empty URL disables it.
type RabbitMQConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

// EventsEnabled reports whether product events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQ.URL != ""
}
