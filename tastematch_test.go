package tastematch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/pooling"
	"github.com/gkoduol/tastematch/rating"
	"github.com/gkoduol/tastematch/store"
)

func newRecommender(t *testing.T, opts ...Option) (*Recommender, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	rec, err := New(Stores{Ratings: mem, Groups: mem, Vectors: mem, Catalog: mem}, opts...)
	require.NoError(t, err)
	return rec, mem
}

func seedGroup(t *testing.T, mem *store.Memory, groupID string, members ...string) {
	t.Helper()
	require.NoError(t, mem.CreateGroup(context.Background(), model.Group{ID: groupID, Members: members}))
}

func rate(t *testing.T, mem *store.Memory, groupID, userID, itemID string, value int) {
	t.Helper()
	require.NoError(t, mem.AppendRating(context.Background(), model.Rating{
		GroupID: groupID, UserID: userID, ItemID: itemID, Value: value,
	}))
}

func addCandidate(t *testing.T, mem *store.Memory, itemID string, embedding model.Vector) {
	t.Helper()
	require.NoError(t, mem.PutCandidate(context.Background(), model.Candidate{
		Restaurant: model.Restaurant{ItemID: itemID, Name: itemID},
		Embedding:  embedding,
	}))
}

func TestNew(t *testing.T) {
	t.Run("RequiresAllStores", func(t *testing.T) {
		mem := store.NewMemory()
		_, err := New(Stores{Ratings: mem, Groups: mem, Vectors: mem})
		assert.Error(t, err)
	})
}

func TestBestByRatings(t *testing.T) {
	ctx := context.Background()

	t.Run("EndToEndScenario", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1", "u2")
		rate(t, mem, "g1", "u1", "A", 5)
		rate(t, mem, "g1", "u1", "B", 1)
		rate(t, mem, "g1", "u2", "A", 3)
		rate(t, mem, "g1", "u2", "B", 4)

		best, err := rec.BestByRatings(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "A", best.ItemID)
		assert.InDelta(t, 5.5, best.Score, 1e-9)
		assert.Equal(t, model.MethodRatingHeuristic, best.Method)
		require.NotNil(t, best.Stats)
		assert.InDelta(t, 4.0, best.Stats.Avg, 1e-9)
		assert.Equal(t, 3, best.Stats.Min)
		assert.Equal(t, 2, best.Stats.Count)
	})

	t.Run("Idempotent", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		rate(t, mem, "g1", "u1", "A", 4)
		rate(t, mem, "g1", "u1", "B", 2)

		first, err := rec.BestByRatings(ctx, "g1")
		require.NoError(t, err)
		second, err := rec.BestByRatings(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("EmptyGroup", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "empty", "u1")

		_, err := rec.BestByRatings(ctx, "empty")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		rec, _ := newRecommender(t)
		_, err := rec.BestByRatings(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ConfigurableBlend", func(t *testing.T) {
		rec, mem := newRecommender(t, WithBlend(rating.Veto))
		seedGroup(t, mem, "g1", "u1", "u2")
		// A: avg 3.5, min 2. B: avg 3, min 3.
		// Veto: A = 0.3*3.5 + 0.7*2 = 2.45; B = 0.3*3 + 0.7*3 = 3.0.
		rate(t, mem, "g1", "u1", "A", 5)
		rate(t, mem, "g1", "u2", "A", 2)
		rate(t, mem, "g1", "u1", "B", 3)
		rate(t, mem, "g1", "u2", "B", 3)

		best, err := rec.BestByRatings(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "B", best.ItemID)
	})
}

func TestUserPreferenceVector(t *testing.T) {
	ctx := context.Background()

	t.Run("SingleLikeEqualsEmbedding", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		addCandidate(t, mem, "A", model.Vector{0.6, 0.8})
		rate(t, mem, "g1", "u1", "A", 5)

		vec, err := rec.UserPreferenceVector(ctx, "g1", "u1")
		require.NoError(t, err)
		assert.Equal(t, model.Vector{0.6, 0.8}, vec)

		stored, ok, err := mem.GetUserVector(ctx, "g1", "u1")
		require.NoError(t, err)
		require.True(t, ok, "vector must be upserted")
		assert.Equal(t, vec, stored)
	})

	t.Run("RecomputeOverwrites", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		addCandidate(t, mem, "A", model.Vector{1, 0})
		addCandidate(t, mem, "B", model.Vector{0, 1})
		rate(t, mem, "g1", "u1", "A", 5)

		_, err := rec.UserPreferenceVector(ctx, "g1", "u1")
		require.NoError(t, err)

		rate(t, mem, "g1", "u1", "B", 5)
		vec, err := rec.UserPreferenceVector(ctx, "g1", "u1")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, vec[0], 1e-6)
		assert.InDelta(t, 0.5, vec[1], 1e-6)
	})

	t.Run("NoLikedItems", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		addCandidate(t, mem, "A", model.Vector{1, 0})
		rate(t, mem, "g1", "u1", "A", 2)

		_, err := rec.UserPreferenceVector(ctx, "g1", "u1")
		var nle *ErrNoLikedItems
		require.ErrorAs(t, err, &nle)
		assert.Equal(t, "u1", nle.UserID)
	})

	t.Run("MissingEmbedding", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		rate(t, mem, "g1", "u1", "unembedded", 5)

		_, err := rec.UserPreferenceVector(ctx, "g1", "u1")
		var me *ErrMissingEmbedding
		require.ErrorAs(t, err, &me)
	})
}

func TestBestBySimilarity(t *testing.T) {
	ctx := context.Background()

	t.Run("RanksUnratedCandidates", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1", "u2")
		addCandidate(t, mem, "liked", model.Vector{1, 0})
		addCandidate(t, mem, "close", model.Vector{0.9, 0.1})
		addCandidate(t, mem, "far", model.Vector{-1, 0})
		rate(t, mem, "g1", "u1", "liked", 5)
		rate(t, mem, "g1", "u2", "liked", 4)

		best, err := rec.BestBySimilarity(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "close", best.ItemID, "rated item excluded, closest unrated wins")
		assert.Equal(t, model.MethodVectorSimilarity, best.Method)
		assert.Positive(t, best.Similarity)
		require.Len(t, best.RunnersUp, 1)
		assert.Equal(t, "far", best.RunnersUp[0].ItemID)
		require.NotNil(t, best.Item)
		assert.Equal(t, "close", best.Item.Name)
	})

	t.Run("ColdStart", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1", "u2")
		addCandidate(t, mem, "A", model.Vector{1, 0})

		_, err := rec.BestBySimilarity(ctx, "g1")
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("EveryCandidateRated", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		addCandidate(t, mem, "only", model.Vector{1, 0})
		rate(t, mem, "g1", "u1", "only", 5)

		_, err := rec.BestBySimilarity(ctx, "g1")
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("MemberWithoutLikesIsSkipped", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "fan", "lurker")
		addCandidate(t, mem, "liked", model.Vector{0, 1})
		addCandidate(t, mem, "fresh", model.Vector{0, 0.9})
		rate(t, mem, "g1", "fan", "liked", 5)

		best, err := rec.BestBySimilarity(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "fresh", best.ItemID)
	})

	t.Run("StrategyConfigurable", func(t *testing.T) {
		rec, mem := newRecommender(t, WithStrategy(pooling.Medoid{}))
		seedGroup(t, mem, "g1", "u1", "u2", "u3")
		addCandidate(t, mem, "north", model.Vector{0, 1})
		addCandidate(t, mem, "east", model.Vector{1, 0})
		addCandidate(t, mem, "target", model.Vector{0.7, 0.7})
		rate(t, mem, "g1", "u1", "north", 5)
		rate(t, mem, "g1", "u2", "east", 5)
		rate(t, mem, "g1", "u3", "north", 5)
		rate(t, mem, "g1", "u3", "east", 4)

		best, err := rec.BestBySimilarity(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, "target", best.ItemID)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		rec, _ := newRecommender(t)
		_, err := rec.BestBySimilarity(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestBestFallbackChain(t *testing.T) {
	ctx := context.Background()

	t.Run("SimilarityWinsWhenAvailable", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		addCandidate(t, mem, "liked", model.Vector{1, 0})
		addCandidate(t, mem, "fresh", model.Vector{0.9, 0.1})
		rate(t, mem, "g1", "u1", "liked", 5)

		best, err := rec.Best(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, model.MethodVectorSimilarity, best.Method)
	})

	t.Run("DegradesToRatingsWithoutEmbeddings", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1", "u2")
		rate(t, mem, "g1", "u1", "A", 5)
		rate(t, mem, "g1", "u2", "A", 3)
		rate(t, mem, "g1", "u1", "B", 2)

		best, err := rec.Best(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, model.MethodRatingHeuristic, best.Method)
		assert.Equal(t, "A", best.ItemID)
	})

	t.Run("DegradesWhenEverythingRated", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1")
		addCandidate(t, mem, "only", model.Vector{1, 0})
		rate(t, mem, "g1", "u1", "only", 5)

		best, err := rec.Best(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, model.MethodRatingHeuristic, best.Method)
		assert.Equal(t, "only", best.ItemID)
	})

	t.Run("ColdStartIsEmptyInput", func(t *testing.T) {
		rec, mem := newRecommender(t)
		seedGroup(t, mem, "g1", "u1", "u2")

		_, err := rec.Best(ctx, "g1")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}
