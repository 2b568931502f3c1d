package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonwraymond/wikiredirect/search"
)

// Sentinel errors for server construction.
var (
	ErrNilResolver = errors.New("server: resolver is nil")
	ErrNilHealth   = errors.New("server: health aggregator is nil")
)

// StatusFor maps a resolution error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusFound
	case errors.Is(err, search.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
