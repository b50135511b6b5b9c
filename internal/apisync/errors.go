package apisync

import "errors"

var (
	// ErrUnavailable indicates the roster server is unreachable.
	ErrUnavailable = errors.New("roster server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("roster request timed out")

	// ErrBadStatus indicates the server answered with a non-2xx status or
	// an undecodable body.
	ErrBadStatus = errors.New("unexpected roster server response")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("roster retry attempts exhausted")
)
