// Package zoho implements the outbound adapter for the third-party
// inventory/accounting API: credential supply, a low-level request executor
// with retry and uniform error mapping, and typed wrappers for the handful of
// resources this service touches (contacts, items, sales orders, purchase
// orders).
package zoho

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is the uniform failure shape for every remote call: any non-2xx
// HTTP response, or an application-level error code embedded in an otherwise
// successful body. Message is taken from the remote payload when present and
// is safe to surface to callers.
type APIError struct {
	StatusCode int    // HTTP status of the response
	Code       int    // application error code from the body, 0 when absent
	Message    string // remote message, or a generic description
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("remote api error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("remote api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// CreatedDespiteError reports whether a failed write nevertheless created the
// resource, judged from the remote error message.
//
// The remote system is known to occasionally return an error status for a
// write that did commit, with a message admitting as much. This predicate is
// the single place that string-matching lives; callers that see it return
// true re-query for the created resource instead of failing. It is a
// workaround for external behavior, not a contract — delete it if the vendor
// ever fixes their status codes.
func CreatedDespiteError(err error) bool {
	var ae *APIError
	if !errors.As(err, &ae) {
		return false
	}
	m := strings.ToLower(ae.Message)
	return strings.Contains(m, "has been created") ||
		strings.Contains(m, "has already been created") ||
		strings.Contains(m, "created successfully")
}
