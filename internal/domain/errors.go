package domain

import "errors"

// Sentinel errors for catalog operations
var (
	// ErrServerOffline indicates the catalog server is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrUnexpectedStatus indicates the server answered with a non-success status
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrMalformedResponse indicates the response body could not be decoded
	ErrMalformedResponse = errors.New("malformed response")

	// ErrCacheUnavailable indicates the local cache could not be read or written
	ErrCacheUnavailable = errors.New("local cache unavailable")
)
