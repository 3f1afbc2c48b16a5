package embedding

import (
	"context"
	"errors"

	"github.com/gkoduol/tastematch/model"
)

// ErrEmptyInput is returned when a provider is asked to embed nothing.
var ErrEmptyInput = errors.New("no texts to embed")

// Provider turns texts into fixed-dimension embedding vectors.
//
// Implementations must return exactly one vector per input text, in input
// order, all of the same dimension. Providers may be remote; callers pass a
// context and should expect latency.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([]model.Vector, error)
}

// EmbedOne embeds a single text.
func EmbedOne(ctx context.Context, p Provider, text string) (model.Vector, error) {
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, errors.New("provider returned wrong vector count")
	}
	return vecs[0], nil
}
