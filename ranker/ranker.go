package ranker

import (
	"context"
	"errors"
	"sort"

	"github.com/gkoduol/tastematch/distance"
	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/pooling"
)

// DefaultLikeThreshold marks ratings >= 4 as positive signal.
// Set Ranker.LikeThreshold to 1 for a binary like/dislike scheme.
const DefaultLikeThreshold = 4

// EmbeddingSource resolves an item ID to its stored embedding, if any.
// Absence is not an error: the second return is false for unembedded items.
type EmbeddingSource interface {
	Embedding(ctx context.Context, itemID string) (model.Vector, bool, error)
}

// Ranker derives per-user and group taste vectors and ranks candidates
// against them. It is pure computation over the snapshots it is handed:
// no I/O beyond the EmbeddingSource lookups, no retained state, safe for
// concurrent use across groups.
type Ranker struct {
	// LikeThreshold is the minimum rating that counts as "liked".
	// Zero means DefaultLikeThreshold.
	LikeThreshold int

	// Strategy aggregates member vectors into the group vector.
	// Nil means pooling.Default (centroid).
	Strategy pooling.Strategy
}

func (r *Ranker) likeThreshold() int {
	if r.LikeThreshold <= 0 {
		return DefaultLikeThreshold
	}
	return r.LikeThreshold
}

func (r *Ranker) strategy() pooling.Strategy {
	if r.Strategy == nil {
		return pooling.Default
	}
	return r.Strategy
}

// UserVector mean-pools the embeddings of every item the user rated at or
// above the like threshold, producing the user's preference vector.
//
// Returns ErrNoLikedItems if the user has no qualifying ratings in the
// snapshot, and ErrMissingEmbedding if none of the liked items have a
// stored embedding.
func (r *Ranker) UserVector(ctx context.Context, source EmbeddingSource, ratings []model.Rating, userID string) (model.Vector, error) {
	threshold := r.likeThreshold()

	var liked []string
	seen := make(map[string]bool)
	for _, rt := range ratings {
		if rt.UserID != userID || rt.Value < threshold {
			continue
		}
		if seen[rt.ItemID] {
			continue
		}
		seen[rt.ItemID] = true
		liked = append(liked, rt.ItemID)
	}
	if len(liked) == 0 {
		return nil, &ErrNoLikedItems{UserID: userID}
	}

	var vectors []model.Vector
	for _, itemID := range liked {
		vec, ok, err := source.Embedding(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if ok {
			vectors = append(vectors, vec)
		}
	}
	if len(vectors) == 0 {
		return nil, &ErrMissingEmbedding{UserID: userID, ItemIDs: liked}
	}

	// User vectors are always mean-pooled; the pluggable strategy applies
	// at the group level.
	return pooling.Centroid{}.Aggregate(vectors)
}

// GroupVector aggregates the member preference vectors with the configured
// strategy. Returns ErrInsufficientData if no member has a vector.
func (r *Ranker) GroupVector(memberVectors []model.Vector) (model.Vector, error) {
	groupVec, err := r.strategy().Aggregate(memberVectors)
	if err != nil {
		if errors.Is(err, pooling.ErrNoVectors) {
			return nil, ErrInsufficientData
		}
		return nil, err
	}
	return groupVec, nil
}

// Rank scores every embedded, unrated candidate by cosine similarity to the
// group vector and returns them in descending order. The sort is stable:
// candidates with equal similarity keep their input order.
//
// Zero-norm candidate vectors are undefined under cosine similarity and are
// dropped rather than surfaced with a NaN score. A dimension mismatch
// between the group vector and a candidate is fatal and returned as
// distance.ErrDimensionMismatch.
//
// Returns ErrInsufficientData when not a single rankable candidate remains.
func (r *Ranker) Rank(groupVec model.Vector, candidates []model.Candidate, exclude *ExclusionSet) ([]model.Scored, error) {
	if len(groupVec) == 0 || distance.Magnitude(groupVec) == 0 {
		return nil, ErrInsufficientData
	}

	scored := make([]model.Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.Embedding == nil {
			continue
		}
		if exclude != nil && exclude.Contains(c.Restaurant.ItemID) {
			continue
		}

		sim, err := distance.CosineSimilarity(groupVec, c.Embedding)
		if err != nil {
			var zn *distance.ErrZeroNorm
			if errors.As(err, &zn) {
				continue
			}
			return nil, err
		}
		scored = append(scored, model.Scored{
			ItemID:     c.Restaurant.ItemID,
			Similarity: sim,
		})
	}
	if len(scored) == 0 {
		return nil, ErrInsufficientData
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	return scored, nil
}
