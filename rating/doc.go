// Package rating turns a group's raw 1..5 ratings into a single consensus
// pick.
//
// Each item's score is a configurable blend of its mean and minimum rating:
//
//	score = Mean*avg + Min*min
//
// Two blends are built in: Balanced (avg + 0.5*min) and Veto
// (0.3*avg + 0.7*min). Duplicate ratings are counted as a multiset — every
// recorded instance contributes to the aggregate.
package rating
