package untappd

import (
	"errors"
	"fmt"

	"github.com/fivetwenty-io/untappd/internal/constants"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrConfiguration is returned when required credentials are missing.
	ErrConfiguration = errors.New("untappd: configuration error")
	// ErrInvalidAuth is reported by the API for rejected credentials. It is never retried.
	ErrInvalidAuth = errors.New("untappd: invalid auth")
	// ErrNotSearchable is returned when search is invoked on an endpoint without search.
	ErrNotSearchable = errors.New("untappd: endpoint is not searchable")
	// ErrMalformedResponse is returned for bodies that are not a valid envelope.
	ErrMalformedResponse = errors.New("untappd: malformed response")
	// ErrAPI is the generic kind for any error the API reports.
	ErrAPI = errors.New("untappd: api error")
	// ErrTransport is returned for connection, DNS and timeout failures.
	ErrTransport = errors.New("untappd: error connecting with Untappd API")
)

// Dispatcher errors.
var (
	ErrUnknownEndpoint = errors.New("untappd: unknown endpoint")
	ErrUnknownAction   = errors.New("untappd: unknown endpoint action")
	ErrNotCallable     = errors.New("untappd: endpoint is not callable")
	ErrCodeRequired    = errors.New("untappd: code not provided")
	ErrConfigRequired  = errors.New("untappd: config is required")
)

// ErrorKinds maps meta.error_type values to error kinds. Types missing from
// the table are reported as ErrAPI.
var ErrorKinds = map[string]error{
	constants.ErrorTypeInvalidAuth: ErrInvalidAuth,
}

// KindFor returns the error kind registered for errorType, or ErrAPI.
func KindFor(errorType string) error {
	if kind, ok := ErrorKinds[errorType]; ok {
		return kind
	}

	return ErrAPI
}

// APIError is an error reported by the API in the meta block.
type APIError struct {
	StatusCode int
	Code       int
	Type       string
	Detail     string
	Kind       error
}

// NewAPIError builds an APIError from a meta block, classifying its type.
func NewAPIError(statusCode int, meta *Meta) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       meta.Code,
		Type:       meta.ErrorType,
		Detail:     meta.ErrorDetail,
		Kind:       KindFor(meta.ErrorType),
	}
}

// Error implements the error interface. The message is the API's error detail.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}

	return fmt.Sprintf("%s (code: %d)", KindFor(e.Type).Error(), e.Code)
}

// Is matches ErrAPI and the classified kind.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI || (e.Kind != nil && target == e.Kind)
}

// Known reports whether the error type was found in ErrorKinds.
func (e *APIError) Known() bool {
	_, ok := ErrorKinds[e.Type]

	return ok
}

// MalformedResponseError is returned when a body is not a valid envelope.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	switch {
	case e.Err != nil && e.Reason != "":
		return fmt.Sprintf("invalid response: %s: %v", e.Reason, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("invalid response: %v", e.Err)
	default:
		return "invalid response: " + e.Reason
	}
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// TransportError is a network-level failure.
type TransportError struct {
	Err     error
	Method  string
	URL     string
	Attempt int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrTransport.Error(), e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsInvalidAuth checks if the error is an invalid auth error.
func IsInvalidAuth(err error) bool {
	return errors.Is(err, ErrInvalidAuth)
}

// IsNotSearchable checks if search was invoked on a non-searchable endpoint.
func IsNotSearchable(err error) bool {
	return errors.Is(err, ErrNotSearchable)
}

// IsMalformedResponse checks if the error is a malformed response error.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsTransport checks if the error is a network-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAPIError checks if the error was reported by the API.
func IsAPIError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// Retryable reports whether a failed attempt may be tried again.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, ErrInvalidAuth)
}
