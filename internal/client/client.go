package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/utils"
)

const blocksPath = "/blocks"

// LedgerClient talks to the external ledger service over HTTP.
// Requests are never retried; failures are surfaced to the caller.
type LedgerClient struct {
	rest    *resty.Client
	address string
}

// NewLedgerClient initializes a client for the ledger service at address.
// A missing scheme defaults to http.
func NewLedgerClient(address string, timeout time.Duration) (*LedgerClient, error) {
	baseURL, err := normalizeAddress(address)
	if err != nil {
		return nil, err
	}

	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &LedgerClient{rest: rest, address: baseURL}, nil
}

// Address returns the base URL of the ledger service.
func (c *LedgerClient) Address() string {
	return c.address
}

// FetchAll returns the full ledger in the order served by the ledger.
func (c *LedgerClient) FetchAll(ctx context.Context) ([]models.Block, error) {
	resp, err := c.rest.R().SetContext(ctx).Get(blocksPath)
	if err != nil {
		return nil, c.fetchFailed(fmt.Errorf("GET %s: %w", blocksPath, err))
	}
	if !resp.IsSuccess() {
		return nil, c.fetchFailed(statusError(resp))
	}

	var blocks []models.Block
	if err := json.Unmarshal(resp.Body(), &blocks); err != nil {
		return nil, c.fetchFailed(fmt.Errorf("failed to decode blocks: %w", err))
	}
	for i := range blocks {
		if err := utils.Validator().Struct(blocks[i]); err != nil {
			return nil, c.fetchFailed(fmt.Errorf("invalid block at position %d: %w", i, err))
		}
	}

	return blocks, nil
}

// FetchLatest returns the last block of the ledger.
func (c *LedgerClient) FetchLatest(ctx context.Context) (*models.Block, error) {
	blocks, err := c.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		slog.Error("Error fetching the latest block", "error", ErrEmptyLedger)
		return nil, fmt.Errorf("failed to fetch the latest block: %w", ErrEmptyLedger)
	}

	latest := blocks[len(blocks)-1]
	return &latest, nil
}

// FetchByIndex returns the block at the given index.
func (c *LedgerClient) FetchByIndex(ctx context.Context, index int) (*models.Block, error) {
	path := blocksPath + "/" + strconv.Itoa(index)
	resp, err := c.rest.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, c.fetchFailed(fmt.Errorf("GET %s: %w", path, err))
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, &FetchError{Err: fmt.Errorf("index %d: %w", index, ErrBlockNotFound)}
	}
	if !resp.IsSuccess() {
		return nil, c.fetchFailed(statusError(resp))
	}

	block, err := decodeBlock(resp.Body())
	if err != nil {
		return nil, c.fetchFailed(err)
	}
	return block, nil
}

// Append submits a transaction message and returns the block created by the ledger.
func (c *LedgerClient) Append(ctx context.Context, msg models.TransactionMessage) (*models.Block, error) {
	if err := utils.Validator().Struct(msg); err != nil {
		return nil, c.appendFailed(fmt.Errorf("invalid transaction message: %w", err))
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(blocksPath)
	if err != nil {
		return nil, c.appendFailed(fmt.Errorf("POST %s: %w", blocksPath, err))
	}
	if !resp.IsSuccess() {
		return nil, c.appendFailed(statusError(resp))
	}

	block, err := decodeBlock(resp.Body())
	if err != nil {
		return nil, c.appendFailed(err)
	}

	slog.Debug("Block appended", "index", block.Index, "transaction_id", block.TransactionID, "status", block.TransactionStatus)
	return block, nil
}

func (c *LedgerClient) fetchFailed(err error) error {
	slog.Error("Error fetching blockchain", "address", c.address, "error", err)
	return &FetchError{Err: err}
}

func (c *LedgerClient) appendFailed(err error) error {
	slog.Error("Error adding block", "address", c.address, "error", err)
	return &AppendError{Err: err}
}

func decodeBlock(body []byte) (*models.Block, error) {
	var block models.Block
	if err := json.Unmarshal(body, &block); err != nil {
		return nil, fmt.Errorf("failed to decode block: %w", err)
	}
	if err := utils.Validator().Struct(block); err != nil {
		return nil, fmt.Errorf("invalid block: %w", err)
	}
	return &block, nil
}

func statusError(resp *resty.Response) error {
	return &StatusError{
		StatusCode: resp.StatusCode(),
		Body:       strings.TrimSpace(resp.String()),
	}
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("ledger address is empty")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("invalid ledger address %q: %w", address, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported ledger address scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid ledger address %q: missing host", address)
	}

	return strings.TrimRight(u.String(), "/"), nil
}
