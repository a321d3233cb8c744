package shared

import (
	"errors"
	"fmt"
)

// RequestError is used when we want a specific error message and StatusCode.
// Handlers are expected to return the exact message inside the request error
// to the caller; anything that should only reach the logs gets joined onto
// the error chain instead.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrMissingAuth   = &RequestError{Err: errors.New("missing authorization header"), StatusCode: 401}
	ErrInvalidFormat = &RequestError{Err: errors.New("invalid authentication format"), StatusCode: 401}

	ErrInvalidRequest = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}

	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}
	ErrUpstreamFailure     = &RequestError{Err: errors.New("inference provider unavailable"), StatusCode: 502}
)

// Codec errors. Wrapped with the underlying cause where one exists and
// mapped onto HTTP statuses (or silent stream termination) by handlers.
var (
	ErrEncoding    = errors.New("failed encoding generation request")
	ErrDecoding    = errors.New("failed decoding generation response")
	ErrEmptyResult = errors.New("generation response contained no results")
)
