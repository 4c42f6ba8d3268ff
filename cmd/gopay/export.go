package gopay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/extractor"
	"github.com/liftedinit/gopay/internal/output"
)

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a ledger snapshot to various output formats",
	Long:  `Fetch the ledger once and write the selected blocks in the specified format.`,
}

func init() {
	ExportCmd.PersistentFlags().Uint64P("start", "s", 0, "First block index to export")
	ExportCmd.PersistentFlags().Uint64P("stop", "e", 0, "Last block index to export (0 means the latest block)")

	ExportCmd.AddCommand(jsonCmd)
	ExportCmd.AddCommand(tsvCmd)
}

// export writes the ledger snapshot to outputHandler and closes it.
func export(cmd *cobra.Command, outputHandler output.OutputHandler) (err error) {
	defer func() {
		if cerr := outputHandler.Close(); cerr != nil && err == nil {
			err = errors.WithMessage(cerr, "failed to close output")
		}
	}()

	exportConfig := config.LoadExportConfigFromCLI()
	if err := exportConfig.Validate(); err != nil {
		return fmt.Errorf("invalid export configuration: %w", err)
	}
	slog.Debug("Command-line arguments", "exportConfig", exportConfig)

	ledger, err := newLedgerClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	handleInterrupt(cancel)

	n, err := extractor.Extract(ctx, ledger, outputHandler, exportConfig, cmd.ErrOrStderr())
	if err != nil {
		return errors.WithMessage(err, "failed to export ledger")
	}

	slog.Info("Export complete", "blocks", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d blocks\n", n)
	return nil
}
