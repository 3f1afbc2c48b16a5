// Package pooling aggregates sets of embedding vectors into a single
// group-taste vector.
//
// Aggregation is a pluggable, named strategy:
//
//   - "centroid": element-wise arithmetic mean (the geometric center)
//   - "median": geometric median via Weiszfeld iteration
//   - "medoid": the input vector closest to all others
//
// Centroid is the default. Strategies are selected by name:
//
//	s, ok := pooling.ByName("median")
//	groupVec, err := s.Aggregate(memberVecs)
package pooling
