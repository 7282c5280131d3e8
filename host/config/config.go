// Package config loads motor-monitor settings from the environment and
// simulator profiles from YAML files.
package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
)

var maskAny = errors.WithStack

// Monitor holds the environment defaults of the motor-monitor command.
// Command-line flags override them.
type Monitor struct {
	Device   string `env:"DCMOTOR_DEVICE" envDefault:"/dev/ttyACM0"`
	Baud     int    `env:"DCMOTOR_BAUD" envDefault:"115200"`
	Listen   string `env:"DCMOTOR_LISTEN" envDefault:":9120"`
	LogLevel string `env:"DCMOTOR_LOG_LEVEL" envDefault:"info"`
	Profile  string `env:"DCMOTOR_PROFILE" envDefault:"four"`
}

// LoadMonitor reads Monitor from the environment
func LoadMonitor() (Monitor, error) {
	var cfg Monitor
	if err := env.Parse(&cfg); err != nil {
		return Monitor{}, maskAny(err)
	}
	if cfg.Baud <= 0 {
		return Monitor{}, errors.Errorf("DCMOTOR_BAUD must be positive, got %d", cfg.Baud)
	}
	return cfg, nil
}
