// Package server provides HTTP routing, middleware, and the JSON API for the
// music metadata aggregator.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, so route
// patterns may use method prefixes and path wildcards.
//
// # API Handler
//
// [APIHandler] serves the aggregated search, catalog detail, setlist,
// recommendation, and scrobbling endpoints. Provider dependencies are
// injected as narrow interfaces; a nil dependency turns its endpoints into
// 503 responses rather than panics, so a partially configured install still
// serves what it can.
//
// Service errors map onto HTTP statuses through the shared error taxonomy:
// absence is 404, missing configuration is 503, provider outages are 502.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
