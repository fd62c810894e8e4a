// Package services contains one client per metadata provider (Jamendo,
// ListenBrainz, MusicBrainz plus Cover Art Archive, and Setlist.fm), each
// pairing typed response structs with pure normalizers that convert raw
// provider payloads into the canonical entities of [models].
//
// Network I/O is isolated behind the [Fetcher] collaborator so normalizers
// stay pure and testable with canned payloads. The production [Client]
// wraps retries, a circuit breaker, and optional rate limiting around plain
// GET/POST-for-JSON semantics; everything provider-specific (base URL,
// default params, auth headers) is configuration.
package services
