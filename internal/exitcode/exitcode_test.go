package exitcode

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newsroomhq/newsroom/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, Success},
		{"rejected login", errors.NewInvalidCredentialsError(), AuthError},
		{"rejected 2fa code", errors.NewTwoFACodeRejectedError(), AuthError},
		{"expired session", errors.NewSessionExpiredError("/news"), AuthError},
		{"duplicate account", errors.NewDuplicateAccountError("a@b.c"), ConflictError},
		{"email collision", errors.NewProfileConflictError("a@b.c"), ConflictError},
		{"transport failure", errors.NewRequestFailedError("/news", stderrors.New("refused")), NetworkError},
		{"anything else", stderrors.New("boom"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExitCode(tt.err))
		})
	}
}
