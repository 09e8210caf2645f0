package jsonapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrUnaddressable     = errors.New("resource has neither an ID nor a location")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrEmptyResponse     = errors.New("response has no body")
	ErrMalformedResponse = errors.New("response body is not valid JSON")
	ErrConfigRequired    = errors.New("config is required")
	ErrEndpointRequired  = errors.New("endpoint is required")
	ErrNoResourceType    = errors.New("resource type is required")
	ErrNoResourceID      = errors.New("resource ID is required")
	ErrNoRelationship    = errors.New("relationship name is required")
	ErrNilResource       = errors.New("resource is nil")
)

// ErrorSource points at the part of the request document that caused an error.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"   yaml:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Header    string `json:"header,omitempty"    yaml:"header,omitempty"`
}

// APIError is a single JSON:API error object.
type APIError struct {
	ID     string                 `json:"id,omitempty"     yaml:"id,omitempty"`
	Status string                 `json:"status,omitempty" yaml:"status,omitempty"`
	Code   string                 `json:"code,omitempty"   yaml:"code,omitempty"`
	Title  string                 `json:"title,omitempty"  yaml:"title,omitempty"`
	Detail string                 `json:"detail,omitempty" yaml:"detail,omitempty"`
	Source *ErrorSource           `json:"source,omitempty" yaml:"source,omitempty"`
	Meta   map[string]interface{} `json:"meta,omitempty"   yaml:"meta,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	var parts []string

	if e.Title != "" {
		parts = append(parts, e.Title)
	}

	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}

	msg := strings.Join(parts, ": ")
	if msg == "" {
		msg = "unknown error"
	}

	if e.Code != "" {
		msg = fmt.Sprintf("%s (code: %s)", msg, e.Code)
	}

	if e.Source != nil && e.Source.Pointer != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Source.Pointer)
	}

	return msg
}

// ResponseError is returned when the server responds with a status outside
// [200, 300). It carries the status code and the decoded error objects.
type ResponseError struct {
	StatusCode int        `json:"-"`
	Errors     []APIError `json:"errors"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	switch len(e.Errors) {
	case 0:
		return fmt.Sprintf("server responded with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	case 1:
		return fmt.Sprintf("server responded with status %d: %s", e.StatusCode, e.Errors[0].Error())
	default:
		messages := make([]string, 0, len(e.Errors))
		for i := range e.Errors {
			messages = append(messages, e.Errors[i].Error())
		}

		return fmt.Sprintf("server responded with status %d: multiple errors: %s", e.StatusCode, strings.Join(messages, "; "))
	}
}

// FirstError returns the first error object or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// ParseResponseError decodes a JSON:API error document.
func ParseResponseError(data []byte, statusCode int) (*ResponseError, error) {
	errResp := ResponseError{StatusCode: statusCode}

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return &errResp, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	errResp.StatusCode = statusCode

	return &errResp, nil
}

// TransportError reports that a request never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// PreconditionError reports a request that could not be issued or a result
// that could not be used, such as addressing an unaddressable resource.
type PreconditionError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the violated condition.
func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode
	}

	return 0
}

// IsNotFound checks if the error reports a missing resource, either an empty
// fetch-by-ID result or a 404 from the server.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrResourceNotFound) {
		return true
	}

	return StatusCode(err) == http.StatusNotFound
}

// IsTransport checks if the error is a transport failure.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsPrecondition checks if the error is a precondition failure.
func IsPrecondition(err error) bool {
	preconditionErr := &PreconditionError{}

	return errors.As(err, &preconditionErr)
}

// IsUnprocessable checks if the server rejected the document (422).
func IsUnprocessable(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}
