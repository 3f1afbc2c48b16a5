package ranker

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/gkoduol/tastematch/model"
	"github.com/gkoduol/tastematch/pk"
)

// ExclusionSet is the set of item IDs the group has already rated, backed
// by a Roaring bitmap over interned keys. Items in the set never appear in
// a similarity ranking.
type ExclusionSet struct {
	interner *pk.Interner
	bits     *roaring.Bitmap
}

// NewExclusionSet creates an empty exclusion set over the given interner.
func NewExclusionSet(interner *pk.Interner) *ExclusionSet {
	return &ExclusionSet{
		interner: interner,
		bits:     roaring.New(),
	}
}

// ExclusionFromRatings builds the exclusion set for a rating snapshot.
func ExclusionFromRatings(interner *pk.Interner, ratings []model.Rating) *ExclusionSet {
	s := NewExclusionSet(interner)
	for _, r := range ratings {
		s.Add(r.ItemID)
	}
	return s
}

// Add marks an item as rated.
func (s *ExclusionSet) Add(itemID string) {
	s.bits.Add(s.interner.Key(itemID))
}

// Contains reports whether the item has been rated. Probing does not
// intern unseen IDs.
func (s *ExclusionSet) Contains(itemID string) bool {
	key, ok := s.interner.Lookup(itemID)
	if !ok {
		return false
	}
	return s.bits.Contains(key)
}

// Cardinality returns the number of excluded items.
func (s *ExclusionSet) Cardinality() uint64 {
	return s.bits.GetCardinality()
}
