package authsdk

import (
	"errors"
	"fmt"
	"strings"
)

// Error types reported in the response envelope.
const (
	ErrorTypeInvalidCredentialsFormat = "invalid_credentials_format"
	ErrorTypeInvalidCredentials       = "invalid_credentials"
	ErrorTypeAccountLock              = "account_lock"
	ErrorTypeNotAuthenticated         = "not_authenticated"
	ErrorTypeInvalidToken             = "invalid_token"
	ErrorTypeValidation               = "validation_error"
	ErrorTypeServerError              = "server_error"
)

// APIError is a failure reported by the service.
type APIError struct {
	StatusCode int      `json:"-"`
	Type       string   `json:"error_type"`
	Messages   []string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Type, e.StatusCode)
	}
	return e.Type + ": " + strings.Join(e.Messages, "; ")
}

// IsErrorType reports whether err is an *APIError of the given type.
func IsErrorType(err error, errorType string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == errorType
}
