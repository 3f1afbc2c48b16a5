package embedding

import (
	"context"
	"fmt"

	"github.com/gkoduol/tastematch/model"
)

// Static is a fixture Provider backed by a fixed text→vector map.
// Used in tests and offline setups.
type Static struct {
	vectors map[string]model.Vector
}

// NewStatic creates a Static provider over the given map.
func NewStatic(vectors map[string]model.Vector) *Static {
	return &Static{vectors: vectors}
}

// Embed resolves each text from the map. Unknown texts are an error, so
// fixture gaps fail loudly instead of skewing a pooled vector.
func (s *Static) Embed(_ context.Context, texts []string) ([]model.Vector, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]model.Vector, len(texts))
	for i, text := range texts {
		vec, ok := s.vectors[text]
		if !ok {
			return nil, fmt.Errorf("static provider has no vector for %q", text)
		}
		out[i] = vec.Clone()
	}
	return out, nil
}
