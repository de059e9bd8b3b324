package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.Record(ctx, Entry{
		Filename:  "a.pdf",
		Success:   true,
		Preview:   "INVOICE ...",
		CreatedAt: base,
	}))
	require.NoError(t, st.Record(ctx, Entry{
		Filename:      "b.pdf",
		Success:       false,
		ErrorCategory: "PDF processing failed",
		CreatedAt:     base.Add(time.Minute),
	}))

	entries, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "b.pdf", entries[0].Filename)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "PDF processing failed", entries[0].ErrorCategory)
	assert.Equal(t, "a.pdf", entries[1].Filename)
	assert.True(t, entries[1].Success)
	assert.NotEmpty(t, entries[0].ID, "ids are generated when absent")
}

func TestRecentHonorsLimit(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, st.Close()) }()

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, st.Record(ctx, Entry{
			Filename:  "doc.pdf",
			Success:   true,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := st.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
