package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type StatusConfig struct {
	Recent   int
	Watch    bool
	Interval time.Duration
}

// Validate checks the interval only in watch mode, where it drives the poll ticker.
func (c StatusConfig) Validate() error {
	if c.Recent < 0 {
		return fmt.Errorf("recent block count cannot be negative")
	}
	if c.Watch && c.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}
	return nil
}

func LoadStatusConfigFromCLI() StatusConfig {
	return StatusConfig{
		Recent:   viper.GetInt("recent"),
		Watch:    viper.GetBool("watch"),
		Interval: viper.GetDuration("interval"),
	}
}
