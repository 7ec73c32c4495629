package execenv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/macstrap/internal/logging"
)

func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	runner := New(logging.New(false, true))

	t.Run("captures stdout", func(t *testing.T) {
		t.Parallel()
		result, err := runner.Run(context.Background(), Spec{Name: "echo", Args: []string{"hello"}})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "hello\n", result.Stdout)
		assert.Empty(t, result.Stderr)
	})

	t.Run("captures stderr separately", func(t *testing.T) {
		t.Parallel()
		result, err := runner.Run(context.Background(), Spec{
			Name: "sh",
			Args: []string{"-c", "echo out && echo err >&2"},
		})
		require.NoError(t, err)
		assert.Equal(t, "out\n", result.Stdout)
		assert.Equal(t, "err\n", result.Stderr)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		t.Parallel()
		result, err := runner.Run(context.Background(), Spec{
			Name: "sh",
			Args: []string{"-c", "exit 3"},
		})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, 3, result.ExitCode)
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		t.Parallel()
		_, err := runner.Run(context.Background(), Spec{Name: "definitely-not-a-binary-xyz"})
		assert.Error(t, err)
	})

	t.Run("stdin is piped", func(t *testing.T) {
		t.Parallel()
		result, err := runner.Run(context.Background(), Spec{
			Name:  "cat",
			Stdin: "key material",
		})
		require.NoError(t, err)
		assert.Equal(t, "key material", result.Stdout)
	})

	t.Run("environment overlay reaches the child", func(t *testing.T) {
		t.Parallel()
		result, err := runner.Run(context.Background(), Spec{
			Name: "sh",
			Args: []string{"-c", "printf '%s' \"$GNUPGHOME\""},
			Env:  map[string]string{"GNUPGHOME": "/tmp/overlay-home"},
		})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/overlay-home", result.Stdout)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := runner.Run(ctx, Spec{Name: "sleep", Args: []string{"10"}})
		assert.Error(t, err)
	})
}

func TestMergeEnvironment(t *testing.T) {
	// t.Setenv is incompatible with t.Parallel.
	t.Setenv("MACSTRAP_TEST_VAR", "parent")

	env := mergeEnvironment(map[string]string{"MACSTRAP_TEST_VAR": "overlay", "EXTRA": "1"})

	assert.Contains(t, env, "MACSTRAP_TEST_VAR=overlay")
	assert.Contains(t, env, "EXTRA=1")
	assert.NotContains(t, env, "MACSTRAP_TEST_VAR=parent")
}

func TestMockRunner(t *testing.T) {
	t.Parallel()

	t.Run("exact and wildcard patterns", func(t *testing.T) {
		t.Parallel()
		mock := NewMockRunner()
		mock.AddResponse("gpg --batch --import", "exact")
		mock.AddResponse("op item get *", "wildcard")

		result, err := mock.Run(context.Background(), Spec{Name: "gpg", Args: []string{"--batch", "--import"}})
		require.NoError(t, err)
		assert.Equal(t, "exact", result.Stdout)

		result, err = mock.Run(context.Background(), Spec{Name: "op", Args: []string{"item", "get", "Key", "--vault", "V"}})
		require.NoError(t, err)
		assert.Equal(t, "wildcard", result.Stdout)
	})

	t.Run("strict mode rejects unconfigured commands", func(t *testing.T) {
		t.Parallel()
		mock := NewMockRunner()
		mock.StrictMode = true

		_, err := mock.Run(context.Background(), Spec{Name: "brew"})
		assert.Error(t, err)
	})

	t.Run("records calls", func(t *testing.T) {
		t.Parallel()
		mock := NewMockRunner()
		_, err := mock.Run(context.Background(), Spec{Name: "gpg", Args: []string{"--batch", "--import"}, Stdin: "armored"})
		require.NoError(t, err)

		require.Len(t, mock.Calls, 1)
		assert.Equal(t, "armored", mock.Calls[0].Stdin)
		assert.Equal(t, 1, mock.CallCount("gpg --batch --import"))
		assert.Zero(t, mock.CallCount("brew *"))
	})
}
