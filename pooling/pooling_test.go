package pooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gkoduol/tastematch/distance"
	"github.com/gkoduol/tastematch/model"
)

func TestCentroid(t *testing.T) {
	t.Run("Mean", func(t *testing.T) {
		got, err := Centroid{}.Aggregate([]model.Vector{
			{1, 2, 3},
			{3, 4, 5},
		})
		require.NoError(t, err)
		assert.Equal(t, model.Vector{2, 3, 4}, got)
	})

	t.Run("SingleVectorIsIdentity", func(t *testing.T) {
		v := model.Vector{0.1, -0.2, 0.3}
		got, err := Centroid{}.Aggregate([]model.Vector{v})
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Centroid{}.Aggregate(nil)
		assert.ErrorIs(t, err, ErrNoVectors)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		_, err := Centroid{}.Aggregate([]model.Vector{{1, 2}, {1, 2, 3}})
		var dm *distance.ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})

	t.Run("InputNotMutated", func(t *testing.T) {
		a := model.Vector{1, 1}
		b := model.Vector{3, 3}
		_, err := Centroid{}.Aggregate([]model.Vector{a, b})
		require.NoError(t, err)
		assert.Equal(t, model.Vector{1, 1}, a)
		assert.Equal(t, model.Vector{3, 3}, b)
	})
}

func TestGeometricMedian(t *testing.T) {
	t.Run("SymmetricSetMatchesCentroid", func(t *testing.T) {
		vectors := []model.Vector{
			{1, 0},
			{-1, 0},
			{0, 1},
			{0, -1},
		}
		got, err := GeometricMedian{}.Aggregate(vectors)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got[0], 1e-4)
		assert.InDelta(t, 0.0, got[1], 1e-4)
	})

	t.Run("ResistsOutlier", func(t *testing.T) {
		// Three members agree, one is far away. The median stays near the
		// cluster while the centroid is dragged a quarter of the way out.
		vectors := []model.Vector{
			{0, 0},
			{0.1, 0},
			{0, 0.1},
			{100, 100},
		}
		median, err := GeometricMedian{}.Aggregate(vectors)
		require.NoError(t, err)
		centroid, err := Centroid{}.Aggregate(vectors)
		require.NoError(t, err)

		origin := model.Vector{0, 0}
		assert.Less(t, distance.L2(median, origin), distance.L2(centroid, origin))
		assert.Less(t, distance.L2(median, origin), float32(1.0))
	})

	t.Run("CoincidesWithInputPoint", func(t *testing.T) {
		v := model.Vector{2, 2}
		got, err := GeometricMedian{}.Aggregate([]model.Vector{v, v, v})
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := GeometricMedian{}.Aggregate([]model.Vector{})
		assert.ErrorIs(t, err, ErrNoVectors)
	})
}

func TestMedoid(t *testing.T) {
	t.Run("ReturnsMemberOfInput", func(t *testing.T) {
		vectors := []model.Vector{
			{0, 0},
			{1, 0},
			{0.4, 0.1},
			{10, 10},
		}
		got, err := Medoid{}.Aggregate(vectors)
		require.NoError(t, err)

		found := false
		for _, v := range vectors {
			if len(v) == len(got) && v[0] == got[0] && v[1] == got[1] {
				found = true
			}
		}
		assert.True(t, found, "medoid must be a member of the input set")
	})

	t.Run("PicksCentralMember", func(t *testing.T) {
		got, err := Medoid{}.Aggregate([]model.Vector{
			{-1, 0},
			{0, 0},
			{1, 0},
		})
		require.NoError(t, err)
		assert.Equal(t, model.Vector{0, 0}, got)
	})

	t.Run("Single", func(t *testing.T) {
		got, err := Medoid{}.Aggregate([]model.Vector{{5, 5}})
		require.NoError(t, err)
		assert.Equal(t, model.Vector{5, 5}, got)
	})
}

func TestByName(t *testing.T) {
	for _, name := range []string{"centroid", "median", "medoid"} {
		s, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, s.Name())
	}

	_, ok := ByName("mode")
	assert.False(t, ok)
}
