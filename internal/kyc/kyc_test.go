package kyc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftedinit/gopay/internal/kyc"
	"github.com/liftedinit/gopay/internal/models"
)

func TestMemoryStore(t *testing.T) {
	var store kyc.Store = kyc.NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	data := models.KYCData{FirstName: "Alice", LastName: "Smith", DocumentType: "passport"}
	require.NoError(t, store.Save(ctx, "1", data))
	require.NoError(t, store.Save(ctx, "2", data))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	submissions := store.(*kyc.MemoryStore).Submissions()
	require.Len(t, submissions, 2)
	assert.Equal(t, "1", submissions[0].UserID)
	assert.Equal(t, data, submissions[0].Data)
	assert.False(t, submissions[0].SubmittedAt.IsZero())
}
