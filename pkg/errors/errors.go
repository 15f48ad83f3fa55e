package errors

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// SourceError is a definitive failure from the upstream source: a non-success
// HTTP status or an unusable response body. It is not retried.
type SourceError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func NewSourceError(statusCode int, msg string) *SourceError {
	return &SourceError{
		StatusCode: statusCode,
		Message:    msg,
	}
}

func NewSourceErrorf(statusCode int, format string, args ...any) *SourceError {
	return &SourceError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, args...),
	}
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("source error: %s", e.Message)
}

func (e *SourceError) AddEndpoint(endpoint string) *SourceError {
	e.Endpoint = endpoint
	return e
}

func (e *SourceError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadGateway, e.Error()).
		AddMetaValue("source_status_code", fmt.Sprintf("%d", e.StatusCode)).
		AddMetaValue("endpoint", e.Endpoint)
}

func IsSourceError(err error) bool {
	_, ok := err.(*SourceError)
	return ok
}

// SourceUnavailableError means the source kept timing out after every retry
// attempt. The run is aborted without touching the store.
type SourceUnavailableError struct {
	Attempts int
	Endpoint string
	Message  string
}

func NewSourceUnavailableError(attempts int, msg string) *SourceUnavailableError {
	return &SourceUnavailableError{
		Attempts: attempts,
		Message:  msg,
	}
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable after %d attempts: %s", e.Attempts, e.Message)
}

func (e *SourceUnavailableError) AddEndpoint(endpoint string) *SourceUnavailableError {
	e.Endpoint = endpoint
	return e
}

func (e *SourceUnavailableError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusServiceUnavailable, e.Error()).
		AddMetaValue("attempts", fmt.Sprintf("%d", e.Attempts)).
		AddMetaValue("endpoint", e.Endpoint)
}

func IsSourceUnavailableError(err error) bool {
	_, ok := err.(*SourceUnavailableError)
	return ok
}

// ValidationError is a pre-run input failure, such as an artist that is not a
// painter or a malformed request.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) AddField(field string) *ValidationError {
	e.Field = field
	return e
}

func (e *ValidationError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).
		AddMetaValue("field", e.Field)
}

func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
