package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Third-party service errors
var (
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrContextDeadline    = errors.New("context deadline exceeded")
	ErrCanceled           = errors.New("request canceled")
	ErrJSONUnmarshal      = errors.New("JSON unmarshal error")
	ErrJSONMarshal        = errors.New("JSON marshal error")
)

// StatusClientClosedRequest is reported when the caller gave up first.
const StatusClientClosedRequest = 499

// Configuration Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
)

// UpstreamError is a non-2xx answer from the travel backend.
type UpstreamError struct {
	StatusCode int
	Detail     string
	Method     string
	Path       string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed: %d", e.StatusCode)
}

// NewUpstreamError reads the backend's error body. The backend reports
// {"detail": "..."} or, for validation failures, {"detail": [{"msg": ...}]}.
func NewUpstreamError(method, path string, statusCode int, body []byte) *UpstreamError {
	upErr := &UpstreamError{StatusCode: statusCode, Method: method, Path: path}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return upErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		upErr.Detail = detail
		return upErr
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.Msg != "" {
				msgs = append(msgs, entry.Msg)
			}
		}
		upErr.Detail = strings.Join(msgs, "; ")
	}
	return upErr
}

func IsUpstreamStatus(err error, statusCode int) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.StatusCode == statusCode
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
		Field:      "service_discovery",
	}
}

func NewContextDeadlineError(operation string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestTimeout,
		err:        ErrContextDeadline,
		Details:    fmt.Sprintf("Context deadline exceeded for %s", operation),
		Field:      "timeout",
	}
}

func NewCanceledError(operation string) *ApiErr {
	return &ApiErr{
		StatusCode: StatusClientClosedRequest,
		err:        ErrCanceled,
		Details:    fmt.Sprintf("Request canceled during %s", operation),
		Field:      "timeout",
	}
}

func NewJSONMarshalError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrJSONMarshal,
		Details:    fmt.Sprintf("JSON marshal error in %s", operation),
		Cause:      cause,
		Field:      "json",
	}
}

func NewJSONUnmarshalError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrJSONUnmarshal,
		Details:    fmt.Sprintf("JSON unmarshal error in %s", operation),
		Cause:      cause,
		Field:      "json",
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func IsServiceUnreachableError(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsContextDeadlineError(err error) bool {
	return errors.Is(err, ErrContextDeadline)
}

func IsCanceledError(err error) bool {
	return errors.Is(err, ErrCanceled)
}
