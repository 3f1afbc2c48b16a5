// Package tastematch aggregates a group's individual restaurant
// preferences into a single recommendation.
//
// Two aggregation paths cooperate:
//
//   - Rating heuristic: every member rates candidates 1..5; each item is
//     scored with a configurable blend of its mean and minimum rating
//     ("no one hates it"), and the top scorer wins.
//   - Vector similarity: each member's liked items are mean-pooled into a
//     preference vector, member vectors are aggregated into a group taste
//     vector (centroid by default, geometric median and medoid available),
//     and unrated candidates are ranked by cosine similarity to it.
//
// Best chains the two: the similarity path runs first and degrades to the
// rating heuristic whenever it cannot produce a candidate (cold start, no
// embeddings, everything already rated).
//
// # Quick Start
//
//	mem := store.NewMemory()
//	rec, err := tastematch.New(tastematch.Stores{
//	    Ratings: mem,
//	    Groups:  mem,
//	    Vectors: mem,
//	    Catalog: mem,
//	})
//	if err != nil {
//	    panic(err)
//	}
//
//	best, err := rec.Best(ctx, groupID)
//
// The engine performs no I/O of its own beyond the injected stores; HTTP,
// candidate search and embedding providers live in the server, yelp and
// embedding packages.
package tastematch
