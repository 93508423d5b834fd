package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrParse marks malformed containers or fixture content.
	ErrParse = errors.New("parse error")
	// ErrServiceUnavailable marks a backend that is unreachable or returned no data.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Kind reports which sentinel err wraps, or nil when it wraps none of them.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrUnauthorized, ErrInvalidArgument, ErrParse, ErrServiceUnavailable} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
