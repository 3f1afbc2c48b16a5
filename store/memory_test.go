package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkoduol/tastematch/model"
)

func TestMemoryGroups(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, m.CreateGroup(ctx, model.Group{ID: "g1", Members: []string{"alice"}}))

		g, err := m.GetGroup(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, g.Members)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := m.GetGroup(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("AddMemberIdempotent", func(t *testing.T) {
		require.NoError(t, m.AddMember(ctx, "g1", "bob"))
		require.NoError(t, m.AddMember(ctx, "g1", "bob"))

		g, err := m.GetGroup(ctx, "g1")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, g.Members)
	})

	t.Run("AddMemberUnknownGroup", func(t *testing.T) {
		assert.ErrorIs(t, m.AddMember(ctx, "nope", "bob"), ErrNotFound)
	})
}

func TestMemoryRatings(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.CreateGroup(ctx, model.Group{ID: "g1"}))

	t.Run("InsertionOrderPreserved", func(t *testing.T) {
		for _, item := range []string{"C", "A", "B"} {
			require.NoError(t, m.AppendRating(ctx, model.Rating{GroupID: "g1", UserID: "u1", ItemID: item, Value: 3}))
		}

		ratings, err := m.ListRatings(ctx, "g1")
		require.NoError(t, err)
		require.Len(t, ratings, 3)
		assert.Equal(t, "C", ratings[0].ItemID)
		assert.Equal(t, "A", ratings[1].ItemID)
		assert.Equal(t, "B", ratings[2].ItemID)
	})

	t.Run("DuplicatesKept", func(t *testing.T) {
		require.NoError(t, m.AppendRating(ctx, model.Rating{GroupID: "g1", UserID: "u1", ItemID: "A", Value: 5}))

		ratings, err := m.ListRatings(ctx, "g1")
		require.NoError(t, err)
		assert.Len(t, ratings, 4)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		assert.ErrorIs(t, m.AppendRating(ctx, model.Rating{GroupID: "nope", ItemID: "A", Value: 1}), ErrNotFound)
		_, err := m.ListRatings(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryVectors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("UpsertOverwrites", func(t *testing.T) {
		require.NoError(t, m.UpsertUserVector(ctx, "g1", "u1", model.Vector{1, 2}))
		require.NoError(t, m.UpsertUserVector(ctx, "g1", "u1", model.Vector{3, 4}))

		vec, ok, err := m.GetUserVector(ctx, "g1", "u1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.Vector{3, 4}, vec)
	})

	t.Run("MissingIsAbsentNotError", func(t *testing.T) {
		_, ok, err := m.GetUserVector(ctx, "g1", "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ListPerGroup", func(t *testing.T) {
		require.NoError(t, m.UpsertUserVector(ctx, "g1", "u2", model.Vector{5, 6}))
		require.NoError(t, m.UpsertUserVector(ctx, "g2", "u1", model.Vector{7, 8}))

		vectors, err := m.ListUserVectors(ctx, "g1")
		require.NoError(t, err)
		assert.Len(t, vectors, 2)
		assert.Equal(t, model.Vector{5, 6}, vectors["u2"])
	})

	t.Run("NoAliasing", func(t *testing.T) {
		src := model.Vector{1, 1}
		require.NoError(t, m.UpsertUserVector(ctx, "g3", "u1", src))
		src[0] = 99

		vec, ok, err := m.GetUserVector(ctx, "g3", "u1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.Vector{1, 1}, vec)
	})
}

func TestMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("PutAndList", func(t *testing.T) {
		require.NoError(t, m.PutCandidate(ctx, model.Candidate{
			Restaurant: model.Restaurant{ItemID: "A", Name: "Luigi's"},
			Embedding:  model.Vector{1, 0},
		}))
		require.NoError(t, m.PutCandidate(ctx, model.Candidate{
			Restaurant: model.Restaurant{ItemID: "B", Name: "Taqueria"},
		}))

		all, err := m.ListCandidates(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "A", all[0].Restaurant.ItemID)
	})

	t.Run("UpsertByItemID", func(t *testing.T) {
		require.NoError(t, m.PutCandidate(ctx, model.Candidate{
			Restaurant: model.Restaurant{ItemID: "A", Name: "Luigi's Trattoria"},
			Embedding:  model.Vector{0, 1},
		}))

		all, err := m.ListCandidates(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Luigi's Trattoria", all[0].Restaurant.Name)
	})

	t.Run("Embedding", func(t *testing.T) {
		vec, ok, err := m.Embedding(ctx, "A")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.Vector{0, 1}, vec)

		_, ok, err = m.Embedding(ctx, "B")
		require.NoError(t, err)
		assert.False(t, ok, "candidate without embedding is absent")

		_, ok, err = m.Embedding(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
