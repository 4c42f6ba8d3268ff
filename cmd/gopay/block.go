package gopay

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:     "block [index]",
	Args:    cobra.ExactArgs(1),
	Short:   "Show a single ledger block",
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil || index < 0 {
			return fmt.Errorf("invalid block index: %s", args[0])
		}

		ledger, err := newLedgerClient()
		if err != nil {
			return err
		}

		block, err := ledger.FetchByIndex(cmd.Context(), index)
		if err != nil {
			return errors.WithMessagef(err, "failed to fetch block %d", index)
		}

		table, err := pterm.DefaultTable.WithData(pterm.TableData{
			{"Index", strconv.Itoa(block.Index)},
			{"User", block.UserID},
			{"Timestamp", block.Timestamp},
			{"Transaction", strconv.Itoa(block.TransactionID)},
			{"Status", string(block.TransactionStatus)},
			{"Hash", block.Hash},
			{"Previous Hash", block.PrevHash},
		}).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}
