package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liftedinit/gopay/internal/models"
)

// JSONOutputHandler writes one indented JSON file per block.
type JSONOutputHandler struct {
	blockDir string
}

func NewJSONOutputHandler(outDir string) (*JSONOutputHandler, error) {
	blockDir := filepath.Join(outDir, "block")

	err := os.MkdirAll(blockDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create blocks directory: %w", err)
	}

	return &JSONOutputHandler{
		blockDir: blockDir,
	}, nil
}

func (h *JSONOutputHandler) WriteBlock(_ context.Context, block *models.Block) error {
	data, err := json.MarshalIndent(block, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal block %d: %w", block.Index, err)
	}

	fileName := fmt.Sprintf("block_%010d.json", block.Index)
	filePath := filepath.Join(h.blockDir, fileName)
	return os.WriteFile(filePath, data, 0644)
}

func (h *JSONOutputHandler) Close() error {
	return nil
}
