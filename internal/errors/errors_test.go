package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	mserrors "github.com/systmms/macstrap/internal/errors"
)

func TestSignInError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("no session")
	err := mserrors.SignInError{Account: "my.1password.com", Err: cause}

	assert.Contains(t, err.Error(), "my.1password.com")
	assert.Contains(t, err.Error(), "op signin")
	assert.ErrorIs(t, error(err), cause)
}

func TestRetrievalError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("op exited with code 1")
	err := mserrors.RetrievalError{Vault: "Private", Item: "GPG Key", Err: cause}

	assert.Contains(t, err.Error(), "Private")
	assert.Contains(t, err.Error(), "GPG Key")
	assert.ErrorIs(t, error(err), cause)
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := mserrors.NotFoundError{Item: "GPG Key", Field: "notes"}
	assert.Contains(t, err.Error(), "notes")
	assert.Contains(t, err.Error(), "GPG Key")
}

func TestImportError_PrefersStderr(t *testing.T) {
	t.Parallel()

	err := mserrors.ImportError{Stderr: "gpg: no valid OpenPGP data found\n"}
	assert.Contains(t, err.Error(), "no valid OpenPGP data found")

	wrapped := mserrors.ImportError{Err: fmt.Errorf("context canceled")}
	assert.Contains(t, wrapped.Error(), "context canceled")
}

func TestUserError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("root cause")
	err := mserrors.UserError{Message: "outer", Err: cause}
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrapCommandNotFound(t *testing.T) {
	t.Parallel()

	err := mserrors.WrapCommandNotFound("op", fmt.Errorf("not found"))
	assert.Contains(t, err.Error(), "1Password CLI")

	err = mserrors.WrapCommandNotFound("unknown-tool", fmt.Errorf("not found"))
	assert.Contains(t, err.Error(), "unknown-tool")
}
