package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the pylonmon daemon configuration.
type Config struct {
	Battery BatteryConfig `yaml:"battery"`
	Poll    PollConfig    `yaml:"poll"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

// ---- BATTERY ----

type BatteryConfig struct {
	// Port is the serial device path of the console adapter.
	Port string `yaml:"port"`
	// Modules is the number of daisy-chained battery units.
	Modules int `yaml:"modules"`
	// Initialise wakes the console before polling. Leave false when the
	// stack is known to be awake already.
	Initialise bool `yaml:"initialise"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// Interval returns the poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads and decodes a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
