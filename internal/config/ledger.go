package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type LedgerConfig struct {
	Address string
	Timeout time.Duration
}

func (c LedgerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("missing ledger address")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("ledger timeout must be positive")
	}
	return nil
}

func LoadLedgerConfigFromCLI() LedgerConfig {
	return LedgerConfig{
		Address: viper.GetString("ledger-addr"),
		Timeout: viper.GetDuration("ledger-timeout"),
	}
}
