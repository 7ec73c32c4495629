package commands

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/macstrap/internal/config"
	"github.com/systmms/macstrap/internal/logging"
)

func TestDotfileVars(t *testing.T) {
	t.Parallel()

	vars, err := dotfileVars("ABCD1234ABCD1234", "/home/dev")
	require.NoError(t, err)

	current, err := user.Current()
	require.NoError(t, err)

	assert.Equal(t, "ABCD1234ABCD1234", vars.GPGKeyID)
	assert.Equal(t, current.Username, vars.User)
	assert.Equal(t, "/home/dev", vars.Home)
}

func TestCompletionCommand_RejectsUnknownShell(t *testing.T) {
	t.Parallel()

	cmd := NewCompletionCommand(&config.Config{Logger: logging.New(false, true)})
	cmd.SetArgs([]string{"tcsh"})
	assert.Error(t, cmd.Execute())
}

func TestSetupCommand_Flags(t *testing.T) {
	t.Parallel()

	cmd := NewSetupCommand(&config.Config{})
	for _, flag := range []string{"skip-packages", "skip-gpg", "skip-dotfiles", "skip-shell"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestGPGCommand_FailsWithoutConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Path:   filepath.Join(t.TempDir(), "missing.yaml"),
		Logger: logging.New(false, true),
	}
	cmd := NewGPGCommand(cfg)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	assert.Error(t, cmd.Execute())
}

func TestDotfilesCommand_UsesConfiguredKeyID(t *testing.T) {
	t.Parallel()

	source := t.TempDir()
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, ".gitconfig.tmpl"),
		[]byte("signingkey = {{.GPGKeyID}}\n"), 0o644))

	configPath := filepath.Join(t.TempDir(), "macstrap.yaml")
	content := "secrets:\n  vault: Private\n  item: GPG Key\n" +
		"gpg:\n  key_id: FEED5678FEED5678\n" +
		"dotfiles:\n  source: " + source + "\n  target: " + target + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg := &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}
	cmd := NewDotfilesCommand(cfg)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	got, err := os.ReadFile(filepath.Join(target, ".gitconfig"))
	require.NoError(t, err)
	assert.Equal(t, "signingkey = FEED5678FEED5678\n", string(got))
}
