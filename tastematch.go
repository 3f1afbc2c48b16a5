package tastematch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/pk"
	"github.com/gkoduol/tastematch/pooling"
	"github.com/gkoduol/tastematch/ranker"
	"github.com/gkoduol/tastematch/rating"
	"github.com/gkoduol/tastematch/store"
)

// Stores are the injected data-access collaborators the Recommender reads
// from and writes to. All four are required.
type Stores struct {
	Ratings store.RatingStore
	Groups  store.GroupStore
	Vectors store.VectorStore
	Catalog store.CatalogStore
}

func (s Stores) validate() error {
	if s.Ratings == nil || s.Groups == nil || s.Vectors == nil || s.Catalog == nil {
		return errors.New("all stores must be provided")
	}
	return nil
}

// Recommender aggregates a group's individual preferences into a single
// pick. It is stateless between calls apart from the injected stores:
// every query is computed from the snapshot the stores return, so it is
// safe to invoke concurrently for different groups.
type Recommender struct {
	stores   Stores
	ranker   *ranker.Ranker
	blend    rating.BlendWeights
	logger   *Logger
	metrics  MetricsCollector
	interner *pk.Interner
}

// New creates a Recommender over the given stores.
func New(stores Stores, opts ...Option) (*Recommender, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}

	o := options{
		strategy: pooling.Default,
		blend:    rating.Balanced,
		logger:   NoopLogger(),
		metrics:  NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Recommender{
		stores: stores,
		ranker: &ranker.Ranker{
			LikeThreshold: o.likeThreshold,
			Strategy:      o.strategy,
		},
		blend:    o.blend,
		logger:   o.logger,
		metrics:  o.metrics,
		interner: pk.NewInterner(),
	}, nil
}

// BestByRatings picks the item with the greatest consensus score under the
// configured blend of mean and minimum rating.
//
// Returns ErrEmptyInput if the group has no ratings and store.ErrNotFound
// if the group does not exist.
func (r *Recommender) BestByRatings(ctx context.Context, groupID string) (_ *model.BestResult, err error) {
	defer func(start time.Time) {
		r.metrics.RecordBestByRatings(time.Since(start), err)
	}(time.Now())

	ratings, err := r.stores.Ratings.ListRatings(ctx, groupID)
	if err != nil {
		return nil, err
	}

	best, err := rating.Best(ratings, r.blend)
	if err != nil {
		err = translateError(err)
		r.logger.LogBestByRatings(ctx, groupID, "", 0, err)
		return nil, err
	}

	result := &model.BestResult{
		ItemID: best.ItemID,
		Item:   best.Snapshot,
		Score:  best.Score,
		Method: model.MethodRatingHeuristic,
		Stats:  &best.Stats,
	}
	r.logger.LogBestByRatings(ctx, groupID, result.ItemID, result.Score, nil)
	return result, nil
}

// UserPreferenceVector recomputes the user's preference vector from their
// current liked ratings and upserts it into the vector store. The previous
// vector is overwritten; there is no incremental update.
//
// Returns ErrNoLikedItems or ErrMissingEmbedding when no vector can be
// derived.
func (r *Recommender) UserPreferenceVector(ctx context.Context, groupID, userID string) (_ model.Vector, err error) {
	defer func(start time.Time) {
		r.metrics.RecordVectorUpsert(time.Since(start), err)
	}(time.Now())

	ratings, err := r.stores.Ratings.ListRatings(ctx, groupID)
	if err != nil {
		return nil, err
	}

	vec, err := r.ranker.UserVector(ctx, r.stores.Catalog, ratings, userID)
	if err != nil {
		err = translateError(err)
		r.logger.LogVectorUpsert(ctx, groupID, userID, 0, err)
		return nil, err
	}

	if err := r.stores.Vectors.UpsertUserVector(ctx, groupID, userID, vec); err != nil {
		return nil, fmt.Errorf("upsert preference vector: %w", err)
	}
	r.logger.LogVectorUpsert(ctx, groupID, userID, len(vec), nil)
	return vec, nil
}

// memberVectors recomputes each member's preference vector and returns the
// usable ones in membership order. Members without derivable vectors fall
// back to their cached vector and are otherwise skipped.
func (r *Recommender) memberVectors(ctx context.Context, groupID string, members []string) ([]model.Vector, error) {
	vectors := make([]model.Vector, len(members))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, userID := range members {
		g.Go(func() error {
			vec, err := r.UserPreferenceVector(gctx, groupID, userID)
			if err != nil {
				var nle *ErrNoLikedItems
				var me *ErrMissingEmbedding
				if !errors.As(err, &nle) && !errors.As(err, &me) {
					return err
				}
				// No fresh vector for this member; a previously stored one
				// still represents them.
				cached, ok, cacheErr := r.stores.Vectors.GetUserVector(gctx, groupID, userID)
				if cacheErr != nil {
					return cacheErr
				}
				if !ok {
					r.logger.LogMemberSkipped(gctx, groupID, userID, err)
					return nil
				}
				vec = cached
			}
			mu.Lock()
			vectors[i] = vec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	usable := vectors[:0]
	for _, vec := range vectors {
		if vec != nil {
			usable = append(usable, vec)
		}
	}
	return usable, nil
}

// BestBySimilarity ranks unrated candidates by cosine similarity to the
// group's aggregate taste vector and returns the top one, with the ordered
// runner-up list attached.
//
// Returns ErrInsufficientData when the path cannot produce a candidate:
// no member vectors (cold start), no embedded candidates, or everything
// already rated. Callers wanting automatic degradation use Best.
func (r *Recommender) BestBySimilarity(ctx context.Context, groupID string) (_ *model.BestResult, err error) {
	defer func(start time.Time) {
		r.metrics.RecordBestBySimilarity(time.Since(start), err)
	}(time.Now())

	group, err := r.stores.Groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ratings, err := r.stores.Ratings.ListRatings(ctx, groupID)
	if err != nil {
		return nil, err
	}

	memberVecs, err := r.memberVectors(ctx, groupID, group.Members)
	if err != nil {
		return nil, err
	}

	groupVec, err := r.ranker.GroupVector(memberVecs)
	if err != nil {
		err = translateError(err)
		r.logger.LogBestBySimilarity(ctx, groupID, "", 0, 0, err)
		return nil, err
	}

	candidates, err := r.stores.Catalog.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	exclude := ranker.ExclusionFromRatings(r.interner, ratings)
	scored, err := r.ranker.Rank(groupVec, candidates, exclude)
	if err != nil {
		err = translateError(err)
		r.logger.LogBestBySimilarity(ctx, groupID, "", 0, len(candidates), err)
		return nil, err
	}

	byID := make(map[string]*model.Restaurant, len(candidates))
	for i := range candidates {
		byID[candidates[i].Restaurant.ItemID] = &candidates[i].Restaurant
	}

	top := scored[0]
	result := &model.BestResult{
		ItemID:     top.ItemID,
		Item:       byID[top.ItemID],
		Score:      float64(top.Similarity),
		Method:     model.MethodVectorSimilarity,
		Similarity: top.Similarity,
		RunnersUp:  scored[1:],
	}
	r.logger.LogBestBySimilarity(ctx, groupID, top.ItemID, top.Similarity, len(scored), nil)
	return result, nil
}

// Best runs the similarity ranker and degrades to the rating heuristic
// when it signals ErrInsufficientData. This fallback chain is contract,
// not convenience: the ML path must never block a group that has plain
// ratings from getting an answer.
//
// Returns ErrEmptyInput only when neither path has any data.
func (r *Recommender) Best(ctx context.Context, groupID string) (*model.BestResult, error) {
	result, err := r.BestBySimilarity(ctx, groupID)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrInsufficientData) {
		return nil, err
	}

	r.logger.LogFallback(ctx, groupID, err)
	r.metrics.RecordFallback()
	return r.BestByRatings(ctx, groupID)
}
