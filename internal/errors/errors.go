package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeInvalidCredentials  ErrorCode = "AUTH-001"
	ErrCodeDuplicateAccount    ErrorCode = "AUTH-002"
	ErrCodeSessionExpired      ErrorCode = "AUTH-003"
	ErrCodeRegisteredNoSession ErrorCode = "AUTH-004"
	ErrCodeTwoFACodeRejected   ErrorCode = "AUTH-005"
	ErrCodeTwoFASetupFailed    ErrorCode = "AUTH-006"
	ErrCodeRoleUpdateFailed    ErrorCode = "AUTH-007"
	ErrCodeCallbackInvalid     ErrorCode = "AUTH-008"

	// Profile errors (PROFILE-001 to PROFILE-099)
	ErrCodeProfileConflict     ErrorCode = "PROFILE-001"
	ErrCodeProfileFetchFailed  ErrorCode = "PROFILE-002"
	ErrCodeProfileUpdateFailed ErrorCode = "PROFILE-003"

	// News/comment errors (NEWS-001 to NEWS-099)
	ErrCodeNewsNotFound ErrorCode = "NEWS-001"

	// Transport/status errors (API-001 to API-099)
	ErrCodeRequestFailed  ErrorCode = "API-001"
	ErrCodeDecodeFailed   ErrorCode = "API-002"
	ErrCodeServerRejected ErrorCode = "API-003"
	ErrCodeNotFound       ErrorCode = "API-004"
	ErrCodeConflict       ErrorCode = "API-005"

	// Validation errors (INPUT-001 to INPUT-099)
	ErrCodeInvalidEmail    ErrorCode = "INPUT-001"
	ErrCodeInvalidPassword ErrorCode = "INPUT-002"
	ErrCodeInvalidPhone    ErrorCode = "INPUT-003"
	ErrCodeInvalidUsername ErrorCode = "INPUT-004"
	ErrCodeEmptyField      ErrorCode = "INPUT-005"

	// Local state errors (STATE-001 to STATE-099)
	ErrCodeSlotReadFailed  ErrorCode = "STATE-001"
	ErrCodeSlotWriteFailed ErrorCode = "STATE-002"
	ErrCodeStateDirFailed  ErrorCode = "STATE-003"
)

// NewsroomError represents an enhanced error with code, suggestions, and a cause
type NewsroomError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *NewsroomError) Error() string {
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

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *NewsroomError) Unwrap() error {
	return e.Cause
}

// New creates a new NewsroomError
func New(code ErrorCode, message string) *NewsroomError {
	return &NewsroomError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new NewsroomError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *NewsroomError {
	return &NewsroomError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *NewsroomError) WithSuggestion(suggestion string) *NewsroomError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// Code extracts the ErrorCode from an error chain, or "" if none is present
func Code(err error) ErrorCode {
	var nrErr *NewsroomError
	if stderrors.As(err, &nrErr) {
		return nrErr.Code
	}
	return ""
}

// Is reports whether any error in the chain carries the given code
func Is(err error, code ErrorCode) bool {
	return Code(err) == code
}

// IsCredential reports whether the error is a locally recoverable credential
// failure: a rejected login or a rejected 2FA code
func IsCredential(err error) bool {
	switch Code(err) {
	case ErrCodeInvalidCredentials, ErrCodeTwoFACodeRejected:
		return true
	}
	return false
}

// IsConflict reports whether the error is a uniqueness conflict
// (duplicate account on register, email collision on profile update)
func IsConflict(err error) bool {
	switch Code(err) {
	case ErrCodeDuplicateAccount, ErrCodeProfileConflict, ErrCodeConflict:
		return true
	}
	return false
}

// IsNotFound reports whether the target of the request no longer exists
func IsNotFound(err error) bool {
	switch Code(err) {
	case ErrCodeNewsNotFound, ErrCodeNotFound:
		return true
	}
	return false
}

// IsSessionExpired reports whether the gateway already forced a redirect to
// the auth screen for this error; callers must not surface it again
func IsSessionExpired(err error) bool {
	return Is(err, ErrCodeSessionExpired)
}

// Common error constructors for frequently used errors

// NewInvalidCredentialsError creates a rejected-login error
func NewInvalidCredentialsError() *NewsroomError {
	return New(ErrCodeInvalidCredentials, "invalid email or password").
		WithSuggestion("Check your email and password and try again")
}

// NewDuplicateAccountError creates a duplicate-registration error
func NewDuplicateAccountError(email string) *NewsroomError {
	return New(ErrCodeDuplicateAccount, fmt.Sprintf("an account already exists for %s", email)).
		WithSuggestion("Switch to the log-in form and use your existing password")
}

// NewRegisteredNoSessionError creates an account-created-but-not-logged-in error
func NewRegisteredNoSessionError(cause error) *NewsroomError {
	return Wrap(ErrCodeRegisteredNoSession, "account created but automatic login failed", cause).
		WithSuggestion("Your account exists; log in directly with your new credentials")
}

// NewSessionExpiredError creates the sentinel returned after a forced redirect
func NewSessionExpiredError(path string) *NewsroomError {
	return New(ErrCodeSessionExpired, fmt.Sprintf("session expired or missing on %s", path)).
		WithSuggestion("Log in again to continue")
}

// NewTwoFACodeRejectedError creates a rejected-2FA-code error
func NewTwoFACodeRejectedError() *NewsroomError {
	return New(ErrCodeTwoFACodeRejected, "invalid code, please try again")
}

// NewNewsNotFoundError creates a deleted-article error
func NewNewsNotFoundError(id int64) *NewsroomError {
	return New(ErrCodeNewsNotFound, fmt.Sprintf("news %d no longer exists", id))
}

// NewProfileConflictError creates an email-collision error
func NewProfileConflictError(email string) *NewsroomError {
	return New(ErrCodeProfileConflict, fmt.Sprintf("email %s is already in use", email)).
		WithSuggestion("Use a different email address")
}

// NewRequestFailedError creates a transport-level error
func NewRequestFailedError(path string, cause error) *NewsroomError {
	return Wrap(ErrCodeRequestFailed, fmt.Sprintf("request to %s failed", path), cause).
		WithSuggestion("Check your connection and retry")
}
