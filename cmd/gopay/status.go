package gopay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/monitor"
	"github.com/liftedinit/gopay/internal/view"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Args:    cobra.NoArgs,
	Short:   "Show the ledger status",
	Long:    `Show the ledger height, the latest block hash and the most recent blocks.`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadStatusConfigFromCLI()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid status configuration: %w", err)
		}

		ledger, err := newLedgerClient()
		if err != nil {
			return err
		}

		m := monitor.New(ledger, cfg.Interval, cfg.Recent)
		if !cfg.Watch {
			if err := m.Refresh(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), msgLedgerFailed)
				return errors.WithMessage(err, "failed to load ledger status")
			}
			return renderState(cmd.OutOrStdout(), m.State())
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		handleInterrupt(cancel)

		return watchStatus(ctx, cmd.OutOrStdout(), m, cfg.Interval)
	},
}

const msgLedgerFailed = "Failed to load blockchain status"

func init() {
	statusCmd.Flags().IntP("recent", "n", view.DefaultRecent, "Number of recent blocks to show")
	statusCmd.Flags().BoolP("watch", "w", false, "Keep polling and print the status whenever the height changes")
	statusCmd.Flags().Duration("interval", monitor.DefaultInterval, "Polling interval in watch mode")
}

// watchStatus polls until ctx is cancelled, printing the status on the first poll and on every height change.
func watchStatus(ctx context.Context, out io.Writer, m *monitor.Monitor, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastHeight := -1
	failing := false
	for {
		err := m.Refresh(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			if !failing {
				fmt.Fprintln(out, msgLedgerFailed)
			}
			failing = true
		default:
			failing = false
			if h := m.Height(); h != lastHeight {
				lastHeight = h
				if err := renderState(out, m.State()); err != nil {
					return err
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func renderState(out io.Writer, state monitor.State) error {
	s := state.Snapshot
	fmt.Fprintf(out, "Current Height: %d\n", s.Height)
	fmt.Fprintf(out, "Latest Block Hash: %s\n", s.LatestHash)
	if len(s.Recent) == 0 {
		return nil
	}

	data := pterm.TableData{{"Block", "Hash", "Time", "Transaction", "Status"}}
	for _, row := range s.Recent {
		data = append(data, []string{
			"#" + strconv.Itoa(row.Index),
			row.Hash,
			row.Time,
			strconv.Itoa(row.TransactionID),
			row.Status,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		slog.Error("Failed to render table", "error", err)
		return err
	}
	fmt.Fprintln(out, table)
	return nil
}
