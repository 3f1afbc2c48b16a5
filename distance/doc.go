// Package distance provides vector distance and similarity calculations.
//
// # Supported Measures
//
//   - Dot: dot product (inner product)
//   - SquaredL2 / L2: Euclidean distance
//   - CosineSimilarity: normalized dot product, range [-1, 1]
//
// CosineSimilarity validates dimensions and guards zero-norm inputs so
// callers never observe NaN scores.
//
// # Usage
//
//	sim, err := distance.CosineSimilarity(groupVec, itemVec)
//	normalized, ok := distance.NormalizeL2Copy(vec)
package distance
