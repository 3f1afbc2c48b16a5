// Package embedding abstracts the external model that turns restaurant
// descriptions into vectors.
//
// Provider is the only coupling point: the ranker never talks to a
// provider directly, it works on vectors already stored in the catalog.
// The huggingface subpackage implements Provider against the HF inference
// feature-extraction endpoint; Static serves fixtures; Cached memoizes
// any provider.
package embedding
