// Package models defines the canonical entity schema that every provider
// response is normalized into: tracks, albums, artists, concert setlists,
// and registry enrichment.
//
// All entities are transient value objects constructed fresh per request.
// Nothing in this package holds shared mutable state, so the types are safe
// to build and read from any number of concurrent requests.
//
// Every entity id is namespaced with a short provider tag (see ids.go) so
// ids from different providers can never collide and always route back to
// the provider that produced them.
package models
