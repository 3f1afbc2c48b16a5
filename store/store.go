package store

import (
	"context"
	"errors"

	"github.com/gkoduol/tastematch/model"
)

// ErrNotFound is returned when a group does not exist.
var ErrNotFound = errors.New("not found")

// RatingStore records and lists a group's ratings.
//
// Implementations must preserve insertion order in ListRatings: downstream
// tie-breaking and exclusion sets are deterministic for a given snapshot
// only if the order is stable.
type RatingStore interface {
	// AppendRating records a rating. Duplicates are not collapsed.
	AppendRating(ctx context.Context, r model.Rating) error
	// ListRatings returns the group's ratings in insertion order.
	ListRatings(ctx context.Context, groupID string) ([]model.Rating, error)
}

// GroupStore keeps session membership.
type GroupStore interface {
	CreateGroup(ctx context.Context, g model.Group) error
	// GetGroup returns ErrNotFound for unknown groups.
	GetGroup(ctx context.Context, groupID string) (model.Group, error)
	// AddMember joins a user to a group. Joining twice is a no-op.
	AddMember(ctx context.Context, groupID, userID string) error
}

// VectorStore keeps derived user preference vectors, keyed by
// (group, user). Vectors are recomputed in full and upserted; there is no
// incremental update path.
type VectorStore interface {
	UpsertUserVector(ctx context.Context, groupID, userID string, vec model.Vector) error
	GetUserVector(ctx context.Context, groupID, userID string) (model.Vector, bool, error)
	// ListUserVectors returns every stored vector for the group.
	ListUserVectors(ctx context.Context, groupID string) (map[string]model.Vector, error)
}

// CatalogStore keeps candidate restaurants and their embeddings.
// Its Embedding method satisfies ranker.EmbeddingSource.
type CatalogStore interface {
	// PutCandidate upserts a candidate by item ID.
	PutCandidate(ctx context.Context, c model.Candidate) error
	// ListCandidates returns all candidates in insertion order.
	ListCandidates(ctx context.Context) ([]model.Candidate, error)
	// Embedding resolves an item's stored embedding; absence is not an
	// error.
	Embedding(ctx context.Context, itemID string) (model.Vector, bool, error)
}
