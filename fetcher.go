package webcompare

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Response is the outcome of a completed HTTP GET.
type Response struct {
	// URL is the final URL after redirects.
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

// ContentType returns the Content-Type header value, or empty string.
func (r *Response) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

// Fetcher retrieves pages over HTTP.
type Fetcher interface {
	// Fetch performs a GET request and returns the response regardless of
	// status code. Failures before a complete response is read are returned
	// as *TransportError.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// TransportError reports a fetch that produced no usable HTTP response:
// DNS, connect, TLS, timeout or protocol failures.
type TransportError struct {
	URL string
	// Code is the HTTP status if headers arrived before the failure, else 0.
	Code int
	Err  error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("fetch %s (HTTP %d): %v", e.URL, e.Code, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// TransportErrorCode returns the status code carried by a *TransportError
// anywhere in err's chain, or 0.
func TransportErrorCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Code
	}
	return 0
}
