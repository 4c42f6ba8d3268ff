package output

import (
	"context"

	"github.com/liftedinit/gopay/internal/models"
)

// OutputHandler writes ledger blocks to an export destination.
type OutputHandler interface {
	WriteBlock(ctx context.Context, block *models.Block) error
	Close() error
}
