package output

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/liftedinit/gopay/internal/models"
)

const (
	blocksTSV    = "blocks.tsv"
	blocksHeader = "index\tuser_id\ttimestamp\ttransaction_id\ttransaction_status\thash\tprev_hash\n"
)

// TSVOutputHandler writes all blocks to a single tab-separated file with a header row.
type TSVOutputHandler struct {
	blockFile   *os.File
	blockWriter *bufio.Writer
}

func NewTSVOutputHandler(outDir string) (*TSVOutputHandler, error) {
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create output directory")
	}

	blockFile, err := os.Create(filepath.Join(outDir, blocksTSV))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create blocks TSV file")
	}

	h := &TSVOutputHandler{
		blockFile:   blockFile,
		blockWriter: bufio.NewWriter(blockFile),
	}
	if _, err := h.blockWriter.WriteString(blocksHeader); err != nil {
		blockFile.Close()
		return nil, errors.WithMessage(err, "failed to write blocks TSV header")
	}

	return h, nil
}

func (h *TSVOutputHandler) WriteBlock(_ context.Context, block *models.Block) error {
	line := fmt.Sprintf("%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
		block.Index,
		sanitize(block.UserID),
		sanitize(block.Timestamp),
		block.TransactionID,
		sanitize(string(block.TransactionStatus)),
		sanitize(block.Hash),
		sanitize(block.PrevHash),
	)
	_, err := h.blockWriter.WriteString(line)
	return err
}

func (h *TSVOutputHandler) Close() error {
	if err := h.blockWriter.Flush(); err != nil {
		slog.Error("failed to flush block writer", "errors", err)
		return err
	}
	if err := h.blockFile.Close(); err != nil {
		slog.Error("failed to close block file", "errors", err)
		return err
	}
	return nil
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func sanitize(s string) string {
	return tsvReplacer.Replace(s)
}
