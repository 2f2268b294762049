package tmdb

import (
	"errors"
	"fmt"
)

// ErrMalformedURL indicates a request or authorization URL could not be built.
var ErrMalformedURL = errors.New("malformed URL")

// NetworkError wraps a transport-level failure. The request never produced
// a decodable response.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodingError indicates the response body did not match the shape the
// endpoint declared.
type DecodingError struct {
	Shape string
	Err   error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Shape, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }
