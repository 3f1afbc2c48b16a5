package ranker

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when the similarity path cannot produce a
// single unrated candidate for the group. Callers are expected to fall back
// to the rating heuristic.
var ErrInsufficientData = errors.New("insufficient data for similarity ranking")

// ErrNoLikedItems indicates a user has zero qualifying positive ratings, so
// no preference vector can be derived for them.
type ErrNoLikedItems struct {
	UserID string
}

func (e *ErrNoLikedItems) Error() string {
	return fmt.Sprintf("user %q has no liked items", e.UserID)
}

// ErrMissingEmbedding indicates that none of a user's liked items have a
// stored embedding. Distinct from ErrNoLikedItems: the user did like
// something, but the catalog cannot place any of it in vector space.
type ErrMissingEmbedding struct {
	UserID  string
	ItemIDs []string
}

func (e *ErrMissingEmbedding) Error() string {
	return fmt.Sprintf("no stored embedding for any of the %d items liked by user %q", len(e.ItemIDs), e.UserID)
}
