// Package ranker ranks candidate restaurants by similarity to a group's
// aggregate taste.
//
// # Pipeline
//
//  1. UserVector: mean-pool the embeddings of a user's liked items into a
//     personal preference vector.
//  2. GroupVector: aggregate member vectors with a pooling.Strategy
//     (centroid by default).
//  3. Rank: cosine-score every embedded candidate against the group vector,
//     excluding items the group has already rated, descending order.
//
// The exclusion set is a Roaring bitmap over interned item keys; see
// ExclusionSet. All steps are pure computation over the snapshots they are
// handed and safe to run concurrently for different groups.
package ranker
