package config

import (
	"fmt"

	"github.com/exepirit/pylontech-go/pkg/pylontech"
)

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg.Battery.Port == "" {
		return fmt.Errorf("battery: port is required")
	}
	if cfg.Battery.Modules < pylontech.MinModules || cfg.Battery.Modules > pylontech.MaxModules {
		return fmt.Errorf("battery: modules must be within %d..%d, got %d",
			pylontech.MinModules, pylontech.MaxModules, cfg.Battery.Modules)
	}
	if cfg.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll: interval_seconds must be > 0")
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: broker is required")
	}
	if cfg.MQTT.Topic == "" {
		return fmt.Errorf("mqtt: topic is required")
	}
	return nil
}
