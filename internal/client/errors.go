package client

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLedger is returned when the latest block is requested from a ledger with no blocks.
	ErrEmptyLedger = errors.New("blockchain is empty")
	// ErrBlockNotFound is returned when the ledger has no block at the requested index.
	ErrBlockNotFound = errors.New("block not found")
)

// FetchError is returned when reading the ledger fails for any reason.
// Its message is stable; the cause is available through errors.Unwrap.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "failed to fetch blockchain data" }

func (e *FetchError) Unwrap() error { return e.Err }

// AppendError is returned when a new block could not be appended to the ledger.
type AppendError struct {
	Err error
}

func (e *AppendError) Error() string { return "failed to add block" }

func (e *AppendError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx answer from the ledger service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Body)
}
