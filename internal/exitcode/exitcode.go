package exitcode

import (
	"os"

	"github.com/newsroomhq/newsroom/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication failure
	AuthError = 3

	// ConflictError indicates the server rejected a duplicate (account, email)
	ConflictError = 4

	// NetworkError indicates a transport-level failure
	NetworkError = 5

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to its exit code by error code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch {
	case errors.IsCredential(err), errors.IsSessionExpired(err):
		return AuthError
	case errors.IsConflict(err):
		return ConflictError
	case errors.Is(err, errors.ErrCodeRequestFailed):
		return NetworkError
	default:
		return GeneralError
	}
}
