package gopay

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/output"
)

var tsvCmd = &cobra.Command{
	Use:     "tsv [flags]",
	Short:   "Export the ledger to a TSV file",
	Args:    cobra.NoArgs,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		tsvConfig := config.LoadTSVConfigFromCLI()
		if err := tsvConfig.Validate(); err != nil {
			return errors.WithMessage(err, "invalid TSV configuration")
		}
		slog.Debug("Command-line argument", "tsv-out", tsvConfig.Output)

		outputHandler, err := output.NewTSVOutputHandler(tsvConfig.Output)
		if err != nil {
			return errors.WithMessage(err, "failed to create TSV output handler")
		}

		return export(cmd, outputHandler)
	},
}

func init() {
	tsvCmd.Flags().StringP("tsv-out", "o", "tsv", "Output directory")
}
