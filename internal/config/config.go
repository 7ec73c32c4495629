package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mserrors "github.com/systmms/macstrap/internal/errors"
	"github.com/systmms/macstrap/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the macstrap.yaml structure
type Definition struct {
	Secrets  SecretsConfig  `yaml:"secrets"`
	GPG      GPGConfig      `yaml:"gpg,omitempty"`
	Packages PackagesConfig `yaml:"packages,omitempty"`
	Dotfiles DotfilesConfig `yaml:"dotfiles,omitempty"`
	Shell    ShellConfig    `yaml:"shell,omitempty"`
}

// SecretsConfig locates the GPG key item in 1Password.
type SecretsConfig struct {
	Account string `yaml:"account,omitempty"` // Optional account shorthand or URL
	Vault   string `yaml:"vault"`
	Item    string `yaml:"item"` // "<item>[/<field>]", field defaults to notes
}

// GPGConfig carries the optional operator override for the key identifier.
type GPGConfig struct {
	KeyID string `yaml:"key_id,omitempty"`
}

// PackagesConfig points at the Brewfile manifest.
type PackagesConfig struct {
	Brewfile string `yaml:"brewfile,omitempty"`
}

// DotfilesConfig describes the dotfile source tree and deploy target.
type DotfilesConfig struct {
	Source string `yaml:"source,omitempty"`
	Target string `yaml:"target,omitempty"`
}

// ShellConfig describes the zsh plugin manager to clone.
type ShellConfig struct {
	PluginManager string `yaml:"plugin_manager,omitempty"`
	CloneDir      string `yaml:"clone_dir,omitempty"`
}

// Load reads and parses the macstrap.yaml file, applies defaults, and
// validates eagerly so later steps can trust the values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return mserrors.UserError{
				Message:    fmt.Sprintf("Config file not found: %s", c.Path),
				Suggestion: "Create a macstrap.yaml or pass --config <path>",
				Err:        err,
			}
		}
		return mserrors.UserError{
			Message: fmt.Sprintf("Failed to read config file: %s", c.Path),
			Err:     err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return mserrors.ConfigError{
			Message:    fmt.Sprintf("Invalid YAML in %s: %v", c.Path, err),
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if err := def.applyDefaults(); err != nil {
		return err
	}
	if err := def.validate(); err != nil {
		return err
	}

	c.Definition = &def
	return nil
}

func (d *Definition) applyDefaults() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	if d.Packages.Brewfile == "" {
		d.Packages.Brewfile = filepath.Join(home, ".Brewfile")
	}
	if d.Dotfiles.Source == "" {
		d.Dotfiles.Source = filepath.Join(home, ".dotfiles")
	}
	if d.Dotfiles.Target == "" {
		d.Dotfiles.Target = home
	}
	if d.Shell.PluginManager == "" {
		d.Shell.PluginManager = "https://github.com/zdharma-continuum/zinit"
	}
	if d.Shell.CloneDir == "" {
		d.Shell.CloneDir = filepath.Join(home, ".local", "share", "zinit", "zinit.git")
	}

	d.Packages.Brewfile = expandTilde(d.Packages.Brewfile, home)
	d.Dotfiles.Source = expandTilde(d.Dotfiles.Source, home)
	d.Dotfiles.Target = expandTilde(d.Dotfiles.Target, home)
	d.Shell.CloneDir = expandTilde(d.Shell.CloneDir, home)

	return nil
}

func (d *Definition) validate() error {
	if d.Secrets.Vault == "" {
		return mserrors.ConfigError{
			Field:      "secrets.vault",
			Message:    "vault name is required",
			Suggestion: "Set secrets.vault to the 1Password vault holding your GPG key",
		}
	}
	if d.Secrets.Item == "" {
		return mserrors.ConfigError{
			Field:      "secrets.item",
			Message:    "item path is required",
			Suggestion: "Set secrets.item to \"<item>\" or \"<item>/<field>\"",
		}
	}
	return nil
}

// SplitItemPath splits the configured "<item>[/<field>]" path. The field
// defaults to "notes" when the path has no slash.
func (s SecretsConfig) SplitItemPath() (item, field string) {
	if i := strings.LastIndex(s.Item, "/"); i >= 0 {
		item, field = s.Item[:i], s.Item[i+1:]
		if field == "" {
			field = "notes"
		}
		return item, field
	}
	return s.Item, "notes"
}

func expandTilde(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
