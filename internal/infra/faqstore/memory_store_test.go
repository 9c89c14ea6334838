package faqstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ymori/visafaq/internal/domain/faq"
)

func TestMemoryStoreTrending(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.IncrementQuery(ctx, "料金について", "料金について教えて"))
	require.NoError(t, store.IncrementQuery(ctx, "料金について", "料金について知りたい"))
	require.NoError(t, store.IncrementQuery(ctx, "面接について", "面接について"))
	require.NoError(t, store.IncrementQuery(ctx, "", "無視される"))

	top, err := store.TopQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	// first phrasing wins as the display form
	require.Equal(t, faq.TrendingQuery{Query: "料金について教えて", Count: 2}, top[0])
	require.Equal(t, faq.TrendingQuery{Query: "面接について", Count: 1}, top[1])

	top, err = store.TopQueries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
}

func TestMemoryStoreUnsatisfied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, q := range []string{"q1", "q2", "q3"} {
		require.NoError(t, store.RecordUnsatisfied(ctx, faq.UnsatisfiedRecord{UserQuestion: q}))
	}
	recs, err := store.ListUnsatisfied(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// the newest records win
	require.Equal(t, "q2", recs[0].UserQuestion)
	require.Equal(t, "q3", recs[1].UserQuestion)
}
