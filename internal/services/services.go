package services

import "context"

// Fetcher is the transport collaborator every provider client depends on:
// given an endpoint path and a flat parameter map, return the raw JSON body.
//
// Implementations fail with [shared.ErrNotFound] on 404 and
// [shared.ErrProviderUnavailable] on network failures and other non-2xx
// statuses. Providers differ only in base URL, default parameters (API
// credentials), and auth headers, all fixed at construction.
type Fetcher interface {
	// Get performs a GET request against path with the given query params
	// merged over the client defaults.
	Get(ctx context.Context, path string, params map[string]string) ([]byte, error)

	// Post sends body as JSON to path and returns the raw response body.
	Post(ctx context.Context, path string, body any) ([]byte, error)
}
