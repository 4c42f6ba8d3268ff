package view_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/models"
	"github.com/liftedinit/gopay/internal/view"
)

func makeBlocks(n int) []models.Block {
	blocks := make([]models.Block, n)
	for i := range blocks {
		blocks[i] = models.Block{
			Index:             i,
			UserID:            "1",
			Timestamp:         "2024-11-20 10:30:00.123456 +0000 UTC m=+0.000000001",
			TransactionID:     1000 + i,
			TransactionStatus: models.StatusCompleted,
			Hash:              fmt.Sprintf("hash-%d", i),
		}
	}
	return blocks
}

func TestBuildEmpty(t *testing.T) {
	s := view.Build(nil, view.DefaultRecent)
	assert.Equal(t, 0, s.Height)
	assert.Equal(t, "N/A", s.LatestHash)
	assert.Empty(t, s.Recent)

	s = view.Build([]models.Block{}, view.DefaultRecent)
	assert.Equal(t, 0, s.Height)
	assert.Equal(t, "N/A", s.LatestHash)
}

func TestBuildRecentReverseOrder(t *testing.T) {
	s := view.Build(makeBlocks(8), 5)
	assert.Equal(t, 8, s.Height)
	assert.Equal(t, "hash-7", s.LatestHash)
	require.Len(t, s.Recent, 5)

	var got []int
	for _, r := range s.Recent {
		got = append(got, r.Index)
	}
	assert.Equal(t, []int{7, 6, 5, 4, 3}, got)
}

func TestBuildFewerThanRecent(t *testing.T) {
	s := view.Build(makeBlocks(2), 5)
	require.Len(t, s.Recent, 2)
	assert.Equal(t, 1, s.Recent[0].Index)
	assert.Equal(t, 0, s.Recent[1].Index)

	assert.Empty(t, view.Build(makeBlocks(2), 0).Recent)
	assert.Empty(t, view.Build(makeBlocks(2), -3).Recent)
}

func TestInvalidTimestamp(t *testing.T) {
	blocks := makeBlocks(3)
	blocks[1].Timestamp = "not a timestamp"
	blocks[2].Timestamp = ""

	s := view.Build(blocks, 5)
	require.Len(t, s.Recent, 3)
	assert.Equal(t, view.InvalidTimestamp, s.Recent[0].Time)
	assert.Equal(t, view.InvalidTimestamp, s.Recent[1].Time)
	assert.NotEqual(t, view.InvalidTimestamp, s.Recent[2].Time)
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-11-20 10:30:00.123456 +0000 UTC m=+0.000000001", "Nov 20, 2024, 10:30:00 AM"},
		{"2024-11-20 22:05:09 +0100 CET", "Nov 20, 2024, 10:05:09 PM"},
		{"2024-11-20", view.InvalidTimestamp},
		{"2024-13-40 10:30:00", view.InvalidTimestamp},
		{"yesterday at noon", view.InvalidTimestamp},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, view.FormatTimestamp(tt.in, time.UTC), tt.in)
	}
}

func TestRowStatus(t *testing.T) {
	tests := []struct {
		status models.TransactionStatus
		text   string
		class  view.StatusClass
	}{
		{models.StatusCompleted, "completed", view.ClassSuccess},
		{models.StatusPending, "pending", view.ClassWarning},
		{models.StatusFailed, "failed", view.ClassDanger},
		{"Gas fee", "Gas fee", view.ClassDanger},
		{"", "Unknown", view.ClassDanger},
	}
	for _, tt := range tests {
		row := view.NewRow(models.Block{TransactionStatus: tt.status})
		assert.Equal(t, tt.text, row.Status)
		assert.Equal(t, tt.class, row.Class)
	}
}
