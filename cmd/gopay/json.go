package gopay

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/output"
)

var jsonCmd = &cobra.Command{
	Use:     "json [flags]",
	Short:   "Export the ledger to JSON files",
	Args:    cobra.NoArgs,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonConfig := config.LoadJSONConfigFromCLI()
		if err := jsonConfig.Validate(); err != nil {
			return fmt.Errorf("invalid JSON configuration: %w", err)
		}
		slog.Debug("Command-line argument", "json-out", jsonConfig.Output)

		outputHandler, err := output.NewJSONOutputHandler(jsonConfig.Output)
		if err != nil {
			return fmt.Errorf("failed to create JSON output handler: %w", err)
		}

		return export(cmd, outputHandler)
	},
}

func init() {
	jsonCmd.Flags().StringP("json-out", "o", "out", "JSON output directory")
}
