package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthFailed         ErrorCode = "AUTH-001"
	ErrCodeNotAuthenticated   ErrorCode = "AUTH-002"
	ErrCodeRegistrationFailed ErrorCode = "AUTH-003"

	// API transport errors (API-001 to API-099)
	ErrCodeAPIUnreachable ErrorCode = "API-001"
	ErrCodeAPIBadStatus   ErrorCode = "API-002"
	ErrCodeAPIDecode      ErrorCode = "API-003"
	ErrCodeAPIEncode      ErrorCode = "API-004"

	// Profile errors (PROFILE-001 to PROFILE-099)
	ErrCodeProfileUpdateFailed ErrorCode = "PROFILE-001"

	// Upload errors (UPLOAD-001 to UPLOAD-099)
	ErrCodeUploadOpenFailed ErrorCode = "UPLOAD-001"
	ErrCodeUploadFailed     ErrorCode = "UPLOAD-002"

	// Catalog errors (LAPTOP-001 to LAPTOP-099)
	ErrCodeLaptopNotFound ErrorCode = "LAPTOP-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"
)

// LapdeckError represents an enhanced error with code, suggestions, and documentation
type LapdeckError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *LapdeckError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *LapdeckError) Unwrap() error {
	return e.Cause
}

// New creates a new LapdeckError
func New(code ErrorCode, message string) *LapdeckError {
	return &LapdeckError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new LapdeckError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *LapdeckError {
	return &LapdeckError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *LapdeckError) WithSuggestion(suggestion string) *LapdeckError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *LapdeckError) WithSuggestions(suggestions ...string) *LapdeckError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *LapdeckError) WithDocs(url string) *LapdeckError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthFailedError creates a login rejection error carrying the server's message
func NewAuthFailedError(reason string) *LapdeckError {
	return New(ErrCodeAuthFailed, fmt.Sprintf("login failed: %s", reason)).
		WithSuggestion("Check your email and password").
		WithSuggestion("Run 'lapdeck auth register' if you don't have an account yet")
}

// NewNotAuthenticatedError creates an error for protected operations without a session
func NewNotAuthenticatedError() *LapdeckError {
	return New(ErrCodeNotAuthenticated, "not logged in").
		WithSuggestion("Run 'lapdeck auth login' to authenticate")
}

// NewRegistrationFailedError creates a registration rejection error
func NewRegistrationFailedError(reason string) *LapdeckError {
	return New(ErrCodeRegistrationFailed, fmt.Sprintf("registration failed: %s", reason)).
		WithSuggestion("Use a different email if this one is already registered")
}

// NewAPIUnreachableError creates a transport failure error
func NewAPIUnreachableError(baseURL string, cause error) *LapdeckError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("cannot reach the catalog service at %s", baseURL), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify the API base URL (LAPDECK_API_URL or .lapdeck/config.yaml)")
}

// NewProfileUpdateFailedError creates a profile update rejection error
func NewProfileUpdateFailedError(reason string) *LapdeckError {
	return New(ErrCodeProfileUpdateFailed, fmt.Sprintf("profile update failed: %s", reason)).
		WithSuggestion("Check that the new email is not already in use")
}

// NewUploadOpenFailedError creates an error for an unreadable picture file
func NewUploadOpenFailedError(path string, cause error) *LapdeckError {
	return Wrap(ErrCodeUploadOpenFailed, fmt.Sprintf("cannot open picture file: %s", path), cause).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewLaptopNotFoundError creates a missing catalog entry error
func NewLaptopNotFoundError(id string) *LapdeckError {
	return New(ErrCodeLaptopNotFound, fmt.Sprintf("laptop not found: %s", id)).
		WithSuggestion("Run 'lapdeck laptop list' to see available entries")
}

// NewConfigInvalidError creates a configuration parse error
func NewConfigInvalidError(path string, cause error) *LapdeckError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration file: %s", path), cause).
		WithSuggestion("Check the YAML syntax").
		WithSuggestion("Delete the file to fall back to defaults")
}
