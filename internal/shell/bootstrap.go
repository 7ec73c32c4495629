// Package shell clones the zsh plugin manager so a fresh machine's
// shell config has something to load.
package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/systmms/macstrap/internal/logging"
)

// Bootstrap clones the configured plugin-manager repository.
type Bootstrap struct {
	logger *logging.Logger
}

// NewBootstrap creates a shell bootstrapper.
func NewBootstrap(logger *logging.Logger) *Bootstrap {
	return &Bootstrap{logger: logger}
}

// Clone performs a shallow clone of url into dir. An existing clone is
// a no-op.
func (b *Bootstrap) Clone(ctx context.Context, url, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		b.logger.Info("Plugin manager already cloned at %s", dir)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return err
	}

	b.logger.Info("Cloning %s", url)
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		b.logger.Info("Plugin manager already cloned at %s", dir)
		return nil
	}
	return err
}
