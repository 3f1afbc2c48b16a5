// Package model defines core types used throughout tastematch.
//
// # Data Types
//
//   - Rating: immutable per-user verdict on a restaurant (1..5 scale)
//   - Restaurant: candidate-item projection from the search provider
//   - Candidate: restaurant plus its embedding, if known
//   - Vector: fixed-dimension embedding vector
//   - BestResult: outcome of a "best" query with method tag and
//     supporting statistics
//
// Derived values (consensus scores, preference vectors) are computed by the
// rating, pooling and ranker packages; model carries only the data they
// operate on.
package model
