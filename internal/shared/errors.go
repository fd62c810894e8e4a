package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Provider errors. ErrNotFound is an absence signal, never a fault:
	// callers translate it to nil or an empty slice. ErrProviderUnavailable
	// covers network failures, non-2xx statuses, and malformed payloads so
	// the aggregation layer can tell a broken provider apart from a miss.
	ErrNotFound            = fmt.Errorf("not found")
	ErrProviderUnavailable = fmt.Errorf("provider unavailable")

	// ErrParseFailure marks a date or duration heuristic that could not be
	// applied. Normalizers degrade to partial output instead of returning it,
	// but it is available for callers that need to report the degradation.
	ErrParseFailure = fmt.Errorf("parse failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
