package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Request & Input-Validation Errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrLimitExceeded        = errors.New("limit exceeded")
)

// NewMissingRequiredFieldError builds a 400 whose details are the message
// shown next to the form.
func NewMissingRequiredFieldError(fieldName, message string) *ApiErr {
	if message == "" {
		message = fmt.Sprintf("Missing required field: %s", fieldName)
	}
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    message,
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    message,
		Field:      fieldName,
	}
}

func NewLimitExceededError(fieldName string, message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnprocessableEntity,
		err:        ErrLimitExceeded,
		Details:    message,
		Field:      fieldName,
	}
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

func IsLimitExceededError(err error) bool {
	return errors.Is(err, ErrLimitExceeded)
}
