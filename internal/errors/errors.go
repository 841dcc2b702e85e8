// Package errors provides the error taxonomy of the completion client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common cases
var (
	ErrMissingCredential = errors.New("API key is not set")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrInvalidResponse   = errors.New("invalid response format")
	ErrNoContent         = errors.New("no content in response")
)

// User-facing messages for failures that carry no server text
const (
	MsgMissingCredential = "Please enter your Groq API key in the settings panel"
	MsgTransport         = "Could not reach the completion service. Check your connection and try again"
	MsgTimeout           = "The completion service did not answer in time. Try again"
	MsgUnknownAPIError   = "Unknown error"
)

// APIError represents a non-success HTTP status from the completion service
type APIError struct {
	StatusCode int
	Endpoint   string
	// Message is the server-provided error.message, if any
	Message string
	Body    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, msg)
}

// Is matches ErrAuthFailed for 401/403 and ErrRateLimited for 429
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates an APIError that keeps the raw response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	e := NewAPIError(statusCode, endpoint, message)
	e.Body = body
	return e
}

// NetworkError represents a transport failure before a response was read
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkErrorWithEndpoint creates a NetworkError for a specific endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request that exceeded the transport deadline
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// ParseError represents a success response whose body has the wrong shape
type ParseError struct {
	Message string
	Path    string
	// Err is ErrNoContent when the body parsed but held no reply
	Err error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// NewNoContentError creates a ParseError for a well-formed body without a reply
func NewNoContentError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path, Err: ErrNoContent}
}

// IsAPIError reports whether err carries a non-success HTTP status
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsAuthError reports whether the service rejected the credential
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrMissingCredential)
}

// IsRateLimitError reports whether the service throttled the request
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a transport deadline expiry
func IsTimeoutError(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// IsParseError reports whether err is a malformed response
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsNoContentError reports whether the response held no reply text
func IsNoContentError(err error) bool {
	return errors.Is(err, ErrNoContent)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// UserMessage returns the notification text shown for a failed submission.
// Server-provided error text is returned verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	var parseErr *ParseError
	switch {
	case errors.Is(err, ErrMissingCredential):
		return MsgMissingCredential
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgUnknownAPIError
	case IsTimeoutError(err):
		return MsgTimeout
	case IsNetworkError(err):
		return MsgTransport
	case errors.As(err, &parseErr):
		return "Unexpected response from the completion service: " + parseErr.Message
	}
	return err.Error()
}
