package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	BackendURL   string `envconfig:"BACKEND_URL" default:"http://localhost:8000/api/v1"`
	SessionFile  string `envconfig:"SESSION_FILE" default:".admin-session"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:""` // empty disables the audit trail
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
