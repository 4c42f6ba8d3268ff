package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ExportConfig selects the block range to export. A zero BlockStop means the latest block.
type ExportConfig struct {
	BlockStart uint64
	BlockStop  uint64
}

func (c ExportConfig) Validate() error {
	if c.BlockStop != 0 && c.BlockStop < c.BlockStart {
		return fmt.Errorf("stop block %d is before start block %d", c.BlockStop, c.BlockStart)
	}
	return nil
}

func LoadExportConfigFromCLI() ExportConfig {
	return ExportConfig{
		BlockStart: viper.GetUint64("start"),
		BlockStop:  viper.GetUint64("stop"),
	}
}
