// Package packages installs the declarative package manifest through
// Homebrew. Manifest parsing is brew's job, not ours.
package packages

import (
	"context"
	"os"
	"os/exec"
	"strings"

	mserrors "github.com/systmms/macstrap/internal/errors"
	"github.com/systmms/macstrap/internal/execenv"
	"github.com/systmms/macstrap/internal/logging"
)

// Installer wraps 'brew bundle'.
type Installer struct {
	logger *logging.Logger
	runner execenv.Runner
}

// NewInstaller creates a Homebrew bundle installer.
func NewInstaller(logger *logging.Logger, runner execenv.Runner) *Installer {
	return &Installer{logger: logger, runner: runner}
}

// Install runs 'brew bundle install' against the given Brewfile.
func (i *Installer) Install(ctx context.Context, brewfile string) error {
	if _, err := exec.LookPath("brew"); err != nil {
		return mserrors.WrapCommandNotFound("brew", err)
	}
	if _, err := os.Stat(brewfile); err != nil {
		return mserrors.UserError{
			Message:    "Brewfile not found: " + brewfile,
			Suggestion: "Create one with 'brew bundle dump --file " + brewfile + "' or point packages.brewfile elsewhere",
			Err:        err,
		}
	}

	i.logger.Info("Installing packages from %s", brewfile)
	result, err := i.runner.Run(ctx, execenv.Spec{
		Name: "brew",
		Args: []string{"bundle", "install", "--file", brewfile},
	})
	if err != nil {
		return err
	}
	if !result.Success {
		return mserrors.CommandError{
			Command:    "brew bundle install",
			ExitCode:   result.ExitCode,
			Message:    tail(result.Stderr, 10),
			Suggestion: "Run 'brew bundle install --file " + brewfile + "' directly to see the full output",
		}
	}

	i.logger.Info("Packages installed")
	return nil
}

// tail returns the last n lines of s, for error messages that should
// not carry brew's entire transcript.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
