package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// OutputDirConfig is the destination directory of a snapshot export.
type OutputDirConfig struct {
	Output string
}

func (c OutputDirConfig) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("missing output directory")
	}
	if info, err := os.Stat(c.Output); err == nil && !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", c.Output)
	}
	return nil
}

func LoadJSONConfigFromCLI() OutputDirConfig {
	return OutputDirConfig{
		Output: viper.GetString("json-out"),
	}
}

func LoadTSVConfigFromCLI() OutputDirConfig {
	return OutputDirConfig{
		Output: viper.GetString("tsv-out"),
	}
}
