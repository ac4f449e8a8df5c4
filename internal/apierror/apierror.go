// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package so that internal
// details (stack traces, DB errors, provider payloads) never reach the browser.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// RedirectError tells the client which page must be completed before retrying.
type RedirectError struct {
	Detail   string `json:"detail"`
	Redirect string `json:"redirect"`
}

func NewRedirect(msg, redirect string) *RedirectError {
	return &RedirectError{Detail: msg, Redirect: redirect}
}
