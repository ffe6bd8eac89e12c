package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from environment variables with the SPED_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8084")
	v.SetDefault("server.environment", "development")
	v.SetDefault("log.level", "info")

	envBindings := map[string]string{
		"server.port":        "SPED_SERVER_PORT",
		"server.environment": "SPED_SERVER_ENVIRONMENT",
		"log.level":          "SPED_LOG_LEVEL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.Server = ServerConfig{
		Port:        v.GetString("server.port"),
		Environment: v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	return cfg, nil
}
