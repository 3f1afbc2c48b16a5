// Package store defines the injected data-access collaborators the
// recommendation engine reads from and writes to.
//
// # Interfaces
//
//   - RatingStore: append-only group ratings, listed in insertion order
//   - GroupStore: session membership
//   - VectorStore: derived user preference vectors (recompute + upsert)
//   - CatalogStore: candidate restaurants and their embeddings
//
// Memory implements all four and is the reference implementation. The
// dynamo subpackage provides a DynamoDB-backed VectorStore. SaveVectors
// and LoadVectors persist a group's vectors through a blobstore as a
// self-describing snapshot (codec + compression recorded in the header).
package store
