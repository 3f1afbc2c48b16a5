package embedding

import (
	"context"
	"sync"

	"github.com/gkoduol/tastematch/model"
)

// Cached memoizes a Provider. Texts already embedded are served from
// memory; only misses reach the underlying provider, batched in one call.
//
// The cache grows without bound; candidate sets are small (tens of
// restaurants per session), so eviction is not worth its complexity here.
type Cached struct {
	provider Provider

	mu    sync.RWMutex
	cache map[string]model.Vector
}

// NewCached wraps the provider with an in-memory cache.
func NewCached(p Provider) *Cached {
	return &Cached{
		provider: p,
		cache:    make(map[string]model.Vector),
	}
}

// Embed returns one vector per text, fetching only uncached texts.
func (c *Cached) Embed(ctx context.Context, texts []string) ([]model.Vector, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]model.Vector, len(texts))
	var misses []string
	var missIdx []int

	c.mu.RLock()
	for i, text := range texts {
		if vec, ok := c.cache[text]; ok {
			out[i] = vec.Clone()
		} else {
			misses = append(misses, text)
			missIdx = append(missIdx, i)
		}
	}
	c.mu.RUnlock()

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.provider.Embed(ctx, misses)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i, vec := range fetched {
		c.cache[misses[i]] = vec.Clone()
		out[missIdx[i]] = vec
	}
	c.mu.Unlock()

	return out, nil
}

// Len returns the number of cached texts.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
