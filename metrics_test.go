package tastematch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tastematch "github.com/gkoduol/tastematch"
	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/store"
)

func TestBasicMetricsCollector(t *testing.T) {
	ctx := context.Background()

	mem := store.NewMemory()
	collector := &tastematch.BasicMetricsCollector{}
	rec, err := tastematch.New(tastematch.Stores{
		Ratings: mem, Groups: mem, Vectors: mem, Catalog: mem,
	}, tastematch.WithMetrics(collector))
	require.NoError(t, err)

	require.NoError(t, mem.CreateGroup(ctx, model.Group{ID: "g", Members: []string{"alice"}}))
	require.NoError(t, mem.AppendRating(ctx, model.Rating{
		GroupID: "g", UserID: "alice", ItemID: "luigis", Value: 5,
	}))

	// No embeddings: Best degrades to the rating path.
	_, err = rec.Best(ctx, "g")
	require.NoError(t, err)

	// UserPreferenceVector fails without a stored embedding.
	_, err = rec.UserPreferenceVector(ctx, "g", "alice")
	require.Error(t, err)

	stats := collector.GetStats()
	assert.EqualValues(t, 1, stats.SimilarityCount)
	assert.EqualValues(t, 1, stats.SimilarityErrors)
	assert.EqualValues(t, 1, stats.FallbackCount)
	assert.EqualValues(t, 1, stats.RatingsCount)
	assert.EqualValues(t, 0, stats.RatingsErrors)
	// One upsert from the direct call plus one from the similarity path's
	// member recompute.
	assert.EqualValues(t, 2, stats.UpsertCount)
	assert.EqualValues(t, 2, stats.UpsertErrors)
}

func TestNoopMetricsCollectorImplementsInterface(t *testing.T) {
	var _ tastematch.MetricsCollector = tastematch.NoopMetricsCollector{}
	var _ tastematch.MetricsCollector = &tastematch.BasicMetricsCollector{}
}
