package tastematch

import (
	"errors"
	"fmt"

	"github.com/gkoduol/tastematch/distance"
	"github.com/gkoduol/tastematch/ranker"
	"github.com/gkoduol/tastematch/rating"
)

var (
	// ErrEmptyInput is returned when a group has no ratings at all, so not
	// even the heuristic path can produce a result.
	ErrEmptyInput = errors.New("no ratings recorded for group")

	// ErrInsufficientData is returned when the similarity path cannot
	// produce a single unrated candidate (cold start, everything rated, or
	// no member vectors). Best degrades to the rating heuristic on it.
	ErrInsufficientData = errors.New("insufficient data for similarity ranking")
)

// ErrNoLikedItems indicates a user has zero qualifying positive ratings.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrNoLikedItems struct {
	UserID string
	cause  error
}

func (e *ErrNoLikedItems) Error() string {
	return fmt.Sprintf("user %q has no liked items", e.UserID)
}

func (e *ErrNoLikedItems) Unwrap() error { return e.cause }

// ErrMissingEmbedding indicates none of a user's liked items have a stored
// embedding.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMissingEmbedding struct {
	UserID string
	cause  error
}

func (e *ErrMissingEmbedding) Error() string {
	return fmt.Sprintf("no stored embedding for any item liked by user %q", e.UserID)
}

func (e *ErrMissingEmbedding) Unwrap() error { return e.cause }

// ErrDimensionMismatch indicates vectors of differing length were compared.
// Fatal: it means the stored vectors are corrupt or were produced by
// different embedding models.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// translateError normalizes inner-package errors into the public taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, rating.ErrNoRatings) {
		return fmt.Errorf("%w: %w", ErrEmptyInput, err)
	}
	if errors.Is(err, ranker.ErrInsufficientData) {
		return fmt.Errorf("%w: %w", ErrInsufficientData, err)
	}

	var nle *ranker.ErrNoLikedItems
	if errors.As(err, &nle) {
		return &ErrNoLikedItems{UserID: nle.UserID, cause: err}
	}
	var me *ranker.ErrMissingEmbedding
	if errors.As(err, &me) {
		return &ErrMissingEmbedding{UserID: me.UserID, cause: err}
	}
	var dm *distance.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	return err
}
