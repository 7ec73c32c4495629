package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/macstrap/internal/config"
	mserrors "github.com/systmms/macstrap/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "macstrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_Load(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: writeConfig(t, `
secrets:
  account: my.1password.com
  vault: Private
  item: "GPG Key/notes"
gpg:
  key_id: ABCD1234ABCD1234
packages:
  brewfile: ~/custom/Brewfile
`)}

	require.NoError(t, cfg.Load())

	def := cfg.Definition
	assert.Equal(t, "my.1password.com", def.Secrets.Account)
	assert.Equal(t, "Private", def.Secrets.Vault)
	assert.Equal(t, "ABCD1234ABCD1234", def.GPG.KeyID)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "custom", "Brewfile"), def.Packages.Brewfile, "tilde must be expanded")

	// Unset sections fall back to documented defaults.
	assert.Equal(t, filepath.Join(home, ".dotfiles"), def.Dotfiles.Source)
	assert.Equal(t, home, def.Dotfiles.Target)
	assert.Equal(t, "https://github.com/zdharma-continuum/zinit", def.Shell.PluginManager)
	assert.NotEmpty(t, def.Shell.CloneDir)
}

func TestConfig_Load_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{
			name:      "missing vault",
			content:   "secrets:\n  item: GPG Key\n",
			wantField: "secrets.vault",
		},
		{
			name:      "missing item",
			content:   "secrets:\n  vault: Private\n",
			wantField: "secrets.item",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Path: writeConfig(t, tt.content)}
			err := cfg.Load()

			require.Error(t, err)
			var cfgErr mserrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestConfig_Load_MissingFile(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: filepath.Join(t.TempDir(), "nope.yaml")}
	err := cfg.Load()

	require.Error(t, err)
	var userErr mserrors.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestConfig_Load_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Path: writeConfig(t, "secrets: [broken")}
	err := cfg.Load()

	require.Error(t, err)
	var cfgErr mserrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSecretsConfig_SplitItemPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		item      string
		wantItem  string
		wantField string
	}{
		{name: "no field defaults to notes", item: "GPG Key", wantItem: "GPG Key", wantField: "notes"},
		{name: "explicit field", item: "GPG Key/private key", wantItem: "GPG Key", wantField: "private key"},
		{name: "trailing slash defaults to notes", item: "GPG Key/", wantItem: "GPG Key", wantField: "notes"},
		{name: "only the last slash splits", item: "Team/GPG Key/notes", wantItem: "Team/GPG Key", wantField: "notes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := config.SecretsConfig{Item: tt.item}
			item, field := s.SplitItemPath()
			assert.Equal(t, tt.wantItem, item)
			assert.Equal(t, tt.wantField, field)
		})
	}
}
