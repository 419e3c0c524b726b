package service

import "errors"

// ErrInvalidRequest is returned for malformed input: an empty or unknown
// batch selection, a bad date string, or a date in the past.  Rejected
// locally, never retried.
var ErrInvalidRequest = errors.New("invalid request")
