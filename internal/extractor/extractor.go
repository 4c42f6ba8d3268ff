// Package extractor copies a ledger snapshot to an output handler.
package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/output"
)

// Fetcher reads the full ledger.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.Block, error)
}

// Extract fetches the ledger once and writes the blocks selected by cfg, in index order.
// It returns the number of blocks written. Progress is rendered to progress when it is not nil.
func Extract(ctx context.Context, fetcher Fetcher, outputHandler output.OutputHandler, cfg config.ExportConfig, progress io.Writer) (int, error) {
	blocks, err := fetcher.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch ledger: %w", err)
	}

	selected := selectRange(blocks, cfg)
	if len(selected) == 0 {
		slog.Info("No blocks to extract", "height", len(blocks))
		return 0, nil
	}
	slog.Info("Extracting blocks", "range", fmt.Sprintf("[%d, %d]", selected[0].Index, selected[len(selected)-1].Index))

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = newProgressBar(len(selected), progress)
		if err := bar.RenderBlank(); err != nil {
			return 0, fmt.Errorf("failed to render progress bar: %w", err)
		}
	}

	for i := range selected {
		if ctx.Err() != nil {
			slog.Info("Extraction cancelled by user")
			return i, ctx.Err()
		}
		if err := outputHandler.WriteBlock(ctx, &selected[i]); err != nil {
			return i, fmt.Errorf("failed to write block %d: %w", selected[i].Index, err)
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			return len(selected), fmt.Errorf("failed to finish progress bar: %w", err)
		}
	}

	return len(selected), nil
}

// selectRange keeps the blocks whose index lies in [BlockStart, BlockStop]. A zero BlockStop is open-ended.
func selectRange(blocks []models.Block, cfg config.ExportConfig) []models.Block {
	selected := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Index < 0 || uint64(b.Index) < cfg.BlockStart {
			continue
		}
		if cfg.BlockStop != 0 && uint64(b.Index) > cfg.BlockStop {
			continue
		}
		selected = append(selected, b)
	}
	return selected
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Exporting blocks..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
