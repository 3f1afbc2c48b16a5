package rating

import (
	"errors"

	"github.com/gkoduol/tastematch/model"
)

// ErrNoRatings is returned when the aggregator receives an empty rating set.
var ErrNoRatings = errors.New("no ratings recorded")

// BlendWeights parameterize the consensus score:
//
//	score = Mean*avg + Min*min
//
// The blend balances overall appeal against the "no one hates it" floor.
type BlendWeights struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
}

// Built-in blends.
var (
	// Balanced is avg + 0.5*min: overall appeal first, hated options
	// penalized.
	Balanced = BlendWeights{Mean: 1.0, Min: 0.5}
	// Veto is 0.3*avg + 0.7*min: the lowest rating dominates, so a single
	// strong objection sinks a candidate.
	Veto = BlendWeights{Mean: 0.3, Min: 0.7}
)

// BlendByName returns a built-in blend by its stable name.
func BlendByName(name string) (BlendWeights, bool) {
	switch name {
	case "balanced":
		return Balanced, true
	case "veto":
		return Veto, true
	default:
		return BlendWeights{}, false
	}
}

// Score applies the blend to an item's rating statistics.
func (w BlendWeights) Score(avg float64, minVal int) float64 {
	return w.Mean*avg + w.Min*float64(minVal)
}

func (w BlendWeights) orDefault() BlendWeights {
	if w == (BlendWeights{}) {
		return Balanced
	}
	return w
}

// Consensus is the aggregate verdict on a single item.
type Consensus struct {
	ItemID   string
	Score    float64
	Stats    model.RatingStats
	Snapshot *model.Restaurant
}

// Aggregate groups the ratings by item and scores each item under the blend.
//
// Every recorded rating instance counts: a user who rated the same item
// twice contributes two values. Results are ordered by the item's first
// rating in the input, which makes downstream tie-breaking deterministic
// for a given snapshot.
//
// Returns ErrNoRatings for an empty input.
func Aggregate(ratings []model.Rating, weights BlendWeights) ([]Consensus, error) {
	if len(ratings) == 0 {
		return nil, ErrNoRatings
	}
	weights = weights.orDefault()

	values := make(map[string][]int)
	snapshots := make(map[string]*model.Restaurant)
	order := make([]string, 0, len(ratings))

	for _, r := range ratings {
		if _, seen := values[r.ItemID]; !seen {
			order = append(order, r.ItemID)
		}
		values[r.ItemID] = append(values[r.ItemID], r.Value)
		if snapshots[r.ItemID] == nil && r.Snapshot != nil {
			snapshots[r.ItemID] = r.Snapshot
		}
	}

	out := make([]Consensus, 0, len(order))
	for _, itemID := range order {
		vs := values[itemID]

		sum := 0
		mn := vs[0]
		for _, v := range vs {
			sum += v
			if v < mn {
				mn = v
			}
		}
		avg := float64(sum) / float64(len(vs))

		out = append(out, Consensus{
			ItemID:   itemID,
			Score:    weights.Score(avg, mn),
			Stats:    model.RatingStats{Avg: avg, Min: mn, Count: len(vs)},
			Snapshot: snapshots[itemID],
		})
	}
	return out, nil
}

// Best returns the item with the strictly greatest consensus score. Ties
// are broken in favor of the item whose first rating was recorded first.
//
// Returns ErrNoRatings for an empty input.
func Best(ratings []model.Rating, weights BlendWeights) (*Consensus, error) {
	scored, err := Aggregate(ratings, weights)
	if err != nil {
		return nil, err
	}

	best := &scored[0]
	for i := 1; i < len(scored); i++ {
		if scored[i].Score > best.Score {
			best = &scored[i]
		}
	}
	return best, nil
}
