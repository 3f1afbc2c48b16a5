package store

import (
	"context"
	"sync"

	"github.com/gkoduol/tastematch/model"
)

// Memory is an in-memory implementation of all store interfaces. It is the
// reference implementation and the default for tests and single-process
// deployments.
//
// Thread-safe. Ratings and candidates keep insertion order.
type Memory struct {
	mu         sync.RWMutex
	groups     map[string]*model.Group
	ratings    map[string][]model.Rating
	vectors    map[string]map[string]model.Vector
	candidates map[string]int // item_id -> index into order
	order      []model.Candidate
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		groups:     make(map[string]*model.Group),
		ratings:    make(map[string][]model.Rating),
		vectors:    make(map[string]map[string]model.Vector),
		candidates: make(map[string]int),
	}
}

// CreateGroup registers a new group.
func (m *Memory) CreateGroup(_ context.Context, g model.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := g
	stored.Members = append([]string(nil), g.Members...)
	m.groups[g.ID] = &stored
	return nil
}

// GetGroup returns the group or ErrNotFound.
func (m *Memory) GetGroup(_ context.Context, groupID string) (model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[groupID]
	if !ok {
		return model.Group{}, ErrNotFound
	}
	out := *g
	out.Members = append([]string(nil), g.Members...)
	return out, nil
}

// AddMember joins a user to a group. Joining twice is a no-op.
func (m *Memory) AddMember(_ context.Context, groupID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	for _, member := range g.Members {
		if member == userID {
			return nil
		}
	}
	g.Members = append(g.Members, userID)
	return nil
}

// AppendRating records a rating for its group.
func (m *Memory) AppendRating(_ context.Context, r model.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[r.GroupID]; !ok {
		return ErrNotFound
	}
	m.ratings[r.GroupID] = append(m.ratings[r.GroupID], r)
	return nil
}

// ListRatings returns the group's ratings in insertion order.
func (m *Memory) ListRatings(_ context.Context, groupID string) ([]model.Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.groups[groupID]; !ok {
		return nil, ErrNotFound
	}
	return append([]model.Rating(nil), m.ratings[groupID]...), nil
}

// UpsertUserVector overwrites the user's preference vector.
func (m *Memory) UpsertUserVector(_ context.Context, groupID, userID string, vec model.Vector) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byUser, ok := m.vectors[groupID]
	if !ok {
		byUser = make(map[string]model.Vector)
		m.vectors[groupID] = byUser
	}
	byUser[userID] = vec.Clone()
	return nil
}

// GetUserVector returns the user's stored preference vector, if any.
func (m *Memory) GetUserVector(_ context.Context, groupID, userID string) (model.Vector, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vec, ok := m.vectors[groupID][userID]
	if !ok {
		return nil, false, nil
	}
	return vec.Clone(), true, nil
}

// ListUserVectors returns every stored vector for the group.
func (m *Memory) ListUserVectors(_ context.Context, groupID string) (map[string]model.Vector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]model.Vector, len(m.vectors[groupID]))
	for userID, vec := range m.vectors[groupID] {
		out[userID] = vec.Clone()
	}
	return out, nil
}

// PutCandidate upserts a candidate by item ID.
func (m *Memory) PutCandidate(_ context.Context, c model.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := c
	stored.Embedding = c.Embedding.Clone()
	if idx, ok := m.candidates[c.Restaurant.ItemID]; ok {
		m.order[idx] = stored
		return nil
	}
	m.candidates[c.Restaurant.ItemID] = len(m.order)
	m.order = append(m.order, stored)
	return nil
}

// ListCandidates returns all candidates in insertion order.
func (m *Memory) ListCandidates(_ context.Context) ([]model.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Candidate, len(m.order))
	for i, c := range m.order {
		out[i] = c
		out[i].Embedding = c.Embedding.Clone()
	}
	return out, nil
}

// Embedding resolves an item's stored embedding.
func (m *Memory) Embedding(_ context.Context, itemID string) (model.Vector, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.candidates[itemID]
	if !ok || m.order[idx].Embedding == nil {
		return nil, false, nil
	}
	return m.order[idx].Embedding.Clone(), true, nil
}
