package model

import (
	"time"
)

// Vector is a fixed-dimension embedding vector.
// All vectors compared against each other must share the same dimension.
type Vector []float32

// Clone returns a deep copy of the vector.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Rating is a single user's verdict on a restaurant within a group.
// Ratings are immutable once recorded. Uniqueness is not enforced:
// a user may rate the same item more than once and every instance
// counts in aggregation.
type Rating struct {
	ID        string      `json:"id,omitempty"`
	GroupID   string      `json:"group_id"`
	UserID    string      `json:"user_id"`
	ItemID    string      `json:"item_id"`
	Value     int         `json:"rating"`
	Snapshot  *Restaurant `json:"item_snapshot,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// RatingMin and RatingMax bound the accepted rating scale.
const (
	RatingMin = 1
	RatingMax = 5
)

// ValidValue reports whether the rating value is on the accepted scale.
func (r Rating) ValidValue() bool {
	return r.Value >= RatingMin && r.Value <= RatingMax
}

// Restaurant is the candidate-item projection kept from the upstream
// search provider. It doubles as the display snapshot carried on ratings.
type Restaurant struct {
	ItemID      string  `json:"item_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	Price       string  `json:"price,omitempty"`
	URL         string  `json:"url,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Address     string  `json:"address,omitempty"`
	Categories  string  `json:"categories,omitempty"`
}

// Candidate pairs a restaurant with its embedding, if one is known.
// Embedding may be nil for items the provider has not embedded yet;
// such items are invisible to the similarity ranker.
type Candidate struct {
	Restaurant Restaurant
	Embedding  Vector
}

// RatingStats are the supporting statistics behind a rating-path consensus
// score.
type RatingStats struct {
	Avg   float64 `json:"avg"`
	Min   int     `json:"min"`
	Count int     `json:"ratings_count"`
}

// Method tags identify which aggregation path produced a BestResult.
const (
	MethodRatingHeuristic  = "rating_heuristic"
	MethodVectorSimilarity = "ml_vector_similarity"
)

// Scored is one entry of a similarity-ranked candidate list.
type Scored struct {
	ItemID     string  `json:"item_id"`
	Similarity float32 `json:"similarity"`
}

// BestResult is the outcome of a "best" query. Output-only, never stored.
//
// Stats is populated on the rating path; Similarity and RunnersUp on the
// similarity path.
type BestResult struct {
	ItemID     string       `json:"item_id"`
	Item       *Restaurant  `json:"item,omitempty"`
	Score      float64      `json:"score"`
	Method     string       `json:"method"`
	Stats      *RatingStats `json:"stats,omitempty"`
	Similarity float32      `json:"similarity,omitempty"`
	RunnersUp  []Scored     `json:"runners_up,omitempty"`
}

// Group is the membership record for a shared session.
type Group struct {
	ID        string    `json:"group_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
