package gpg

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithEphemeralKeyring_CreatesAndRemovesHome(t *testing.T) {
	t.Parallel()

	var home string
	err := withEphemeralKeyring(func(env map[string]string) error {
		home = env["GNUPGHOME"]
		require.NotEmpty(t, home)

		info, err := os.Stat(home)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
		return nil
	})
	require.NoError(t, err)

	_, err = os.Stat(home)
	assert.True(t, os.IsNotExist(err), "ephemeral keyring directory must be removed")
}

func TestWithEphemeralKeyring_RemovesHomeOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("import blew up")
	var home string
	err := withEphemeralKeyring(func(env map[string]string) error {
		home = env["GNUPGHOME"]
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(home)
	assert.True(t, os.IsNotExist(statErr), "directory must be removed on the error path too")
}

func TestWithEphemeralKeyring_FreshDirectoryPerCall(t *testing.T) {
	t.Parallel()

	var first, second string
	require.NoError(t, withEphemeralKeyring(func(env map[string]string) error {
		first = env["GNUPGHOME"]
		return nil
	}))
	require.NoError(t, withEphemeralKeyring(func(env map[string]string) error {
		second = env["GNUPGHOME"]
		return nil
	}))
	assert.NotEqual(t, first, second)
}
