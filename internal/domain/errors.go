package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError represents a standardized error response
type APIError struct {
	Code      string    `json:"code"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error codes for different failure scenarios
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUpstreamPrediction = "UPSTREAM_PREDICTION_ERROR"
	ErrCodeUpstreamGeneration = "UPSTREAM_GENERATION_ERROR"
	ErrCodeUpstreamLookup     = "UPSTREAM_LOOKUP_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

var (
	ErrUpstreamPrediction = errors.New("prediction service failure")
	ErrUpstreamGeneration = errors.New("generation service failure")
	ErrUpstreamLookup     = errors.New("drug lookup failure")
	ErrLookupNotFound     = errors.New("no matching drug labels")
)

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure of one request.
// Summary, when set, is the client-facing message.
type ValidationErrors struct {
	Summary string
	Fields  []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Fields) == 0 {
		return e.Summary
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	msg := strings.Join(parts, "; ")
	if e.Summary != "" {
		msg = e.Summary + " (" + msg + ")"
	}
	return msg
}

// Add appends a field failure
func (e *ValidationErrors) Add(field, message string, value interface{}) {
	e.Fields = append(e.Fields, NewValidationError(field, message, value))
}

// ErrOrNil returns nil when no field failed
func (e *ValidationErrors) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// UpstreamError wraps a failure of one external collaborator.
// It matches its Kind sentinel and its cause under errors.Is.
type UpstreamError struct {
	Kind       error
	Service    string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned status %d: %v", e.Kind, e.Service, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Error:     message,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewUpstreamError creates an UpstreamError of the given kind
func NewUpstreamError(kind error, service string, status int, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, Service: service, StatusCode: status, Err: err}
}

// IsValidation reports whether err carries client input failures
func IsValidation(err error) bool {
	var ve *ValidationError
	var ves *ValidationErrors
	return errors.As(err, &ves) || errors.As(err, &ve)
}

// ErrorCode maps an error to its stable API error code
func ErrorCode(err error) string {
	switch {
	case IsValidation(err):
		return ErrCodeValidation
	case errors.Is(err, ErrUpstreamPrediction):
		return ErrCodeUpstreamPrediction
	case errors.Is(err, ErrUpstreamGeneration):
		return ErrCodeUpstreamGeneration
	case errors.Is(err, ErrUpstreamLookup):
		return ErrCodeUpstreamLookup
	default:
		return ErrCodeInternal
	}
}

// MapStatus maps an error to the HTTP status returned to the client
func MapStatus(err error) int {
	if IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
