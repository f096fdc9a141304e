package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from environment variables. Gameplay
// data and policy come from the JSON config file instead (LoadConfig).
type Env struct {
	ConfigPath         string `env:"BATALLA_CONFIG" envDefault:"./batalla_config.json"`
	DBPath             string `env:"BATALLA_DB" envDefault:"./data/batalla.db"`
	Addr               string `env:"BATALLA_ADDR"`
	SessionSecret      string `env:"SESSION_SECRET,required"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
}

// ParseEnv loads server configuration from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
