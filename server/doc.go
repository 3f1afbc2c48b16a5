// Package server exposes the recommendation engine over HTTP.
//
// The surface mirrors a group dining session: create a group, join it,
// fetch candidate restaurants, submit ratings, ask for the best pick.
// Engine errors map onto statuses: unknown groups are 404, out-of-range
// ratings and empty groups are 422.
package server
