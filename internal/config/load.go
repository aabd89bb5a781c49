package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CATALOG_DATABASE_DRIVER.
	EnvPrefix = "CATALOG"
	// PlatformPortEnv is set by the hosting platform in production.
	PlatformPortEnv = "PORT"

	devConfigName  = "config-dev"
	prodConfigName = "config-prod"
)

// FileName returns the config document Load will read given the current
// environment.
func FileName() string {
	if _, ok := os.LookupEnv(PlatformPortEnv); ok {
		return prodConfigName + ".json"
	}
	return devConfigName + ".json"
}

// Load reads the dev or prod document from dir, applies environment
// overrides and validates the result.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.static_dir", "_front-end")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", "mongodb")
	v.SetDefault("database.connection_string", "")
	v.SetDefault("database.name", "")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "product_events")

	v.SetConfigFile(dir + string(os.PathSeparator) + FileName())
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName(), err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The platform port wins over everything else.
	if err := v.BindEnv("server.port", PlatformPortEnv, EnvPrefix+"_SERVER_PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind port: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
