// Package view derives the ledger status shown on the dashboard from a ledger snapshot.
package view

import (
	"strings"
	"time"

	"github.com/liftedinit/gopay/internal/models"
)

const (
	DefaultRecent = 5

	NoHash           = "N/A"
	InvalidTimestamp = "Invalid Timestamp"
	UnknownStatus    = "Unknown"

	// DisplayLayout is the layout used for rendered block timestamps.
	DisplayLayout = "Jan 2, 2006, 3:04:05 PM"
)

// StatusClass is the visual category of a transaction status.
type StatusClass string

const (
	ClassSuccess StatusClass = "success"
	ClassWarning StatusClass = "warning"
	ClassDanger  StatusClass = "danger"
)

// Row is a rendered ledger entry.
type Row struct {
	Index         int         `json:"index"`
	Hash          string      `json:"hash"`
	Time          string      `json:"time"`
	TransactionID int         `json:"transactionId"`
	Status        string      `json:"status"`
	Class         StatusClass `json:"class"`
}

// Snapshot is the ledger status derived from a fetched block sequence.
type Snapshot struct {
	Height     int    `json:"height"`
	LatestHash string `json:"latestHash"`
	Recent     []Row  `json:"recent"`
}

// Build derives the status for blocks, keeping the last recent entries newest first.
// A non-positive recent yields no rows.
func Build(blocks []models.Block, recent int) Snapshot {
	s := Snapshot{
		Height:     len(blocks),
		LatestHash: NoHash,
		Recent:     []Row{},
	}
	if len(blocks) == 0 {
		return s
	}

	s.LatestHash = blocks[len(blocks)-1].Hash

	if recent < 0 {
		recent = 0
	}
	start := max(len(blocks)-recent, 0)
	for i := len(blocks) - 1; i >= start; i-- {
		s.Recent = append(s.Recent, NewRow(blocks[i]))
	}
	return s
}

// NewRow renders a single block.
func NewRow(b models.Block) Row {
	status := string(b.TransactionStatus)
	if status == "" {
		status = UnknownStatus
	}
	return Row{
		Index:         b.Index,
		Hash:          b.Hash,
		Time:          FormatTimestamp(b.Timestamp, time.Local),
		TransactionID: b.TransactionID,
		Status:        status,
		Class:         ClassifyStatus(b.TransactionStatus),
	}
}

// ClassifyStatus maps a transaction status to its visual category.
func ClassifyStatus(status models.TransactionStatus) StatusClass {
	switch status {
	case models.StatusCompleted:
		return ClassSuccess
	case models.StatusPending:
		return ClassWarning
	default:
		return ClassDanger
	}
}

// ParseTimestamp reads a ledger timestamp ("2006-01-02 15:04:05.999 -0700 MST ...").
// Only the date and time fields are used; they are interpreted in loc.
func ParseTimestamp(ts string, loc *time.Location) (time.Time, bool) {
	fields := strings.Fields(ts)
	if len(fields) < 2 {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", fields[0]+"T"+fields[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTimestamp renders a ledger timestamp, or InvalidTimestamp when it cannot be parsed.
func FormatTimestamp(ts string, loc *time.Location) string {
	t, ok := ParseTimestamp(ts, loc)
	if !ok {
		return InvalidTimestamp
	}
	return t.Format(DisplayLayout)
}
