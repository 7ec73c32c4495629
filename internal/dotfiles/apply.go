// Package dotfiles deploys the dotfile source tree into the target
// directory, rendering *.tmpl files with run-scoped variables (the
// imported GPG key id among them).
package dotfiles

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/systmms/macstrap/internal/logging"
)

// Vars are available to dotfile templates as {{.GPGKeyID}} and friends.
type Vars struct {
	GPGKeyID string
	User     string
	Home     string
}

// Applier walks the source tree and writes each file into the target.
type Applier struct {
	logger *logging.Logger
}

// NewApplier creates a dotfile applier.
func NewApplier(logger *logging.Logger) *Applier {
	return &Applier{logger: logger}
}

// Apply deploys source into target. Files ending in .tmpl are rendered
// through text/template with vars and written without the suffix; all
// other files are copied verbatim. An existing destination file is
// backed up to <name>.bak once, before its first overwrite.
func (a *Applier) Apply(ctx context.Context, source, target string, vars Vars) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("dotfiles source %s: %w", source, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("dotfiles source %s is not a directory", source)
	}

	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}

		if strings.HasSuffix(rel, ".tmpl") {
			return a.render(path, filepath.Join(target, strings.TrimSuffix(rel, ".tmpl")), vars)
		}
		return a.copy(path, filepath.Join(target, rel))
	})
}

func (a *Applier) render(src, dst string, vars Vars) error {
	tmpl, err := template.ParseFiles(src)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", src, err)
	}

	mode, err := sourceMode(src)
	if err != nil {
		return err
	}
	if err := prepareDestination(dst); err != nil {
		return err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := tmpl.Execute(f, vars); err != nil {
		return fmt.Errorf("render template %s: %w", src, err)
	}

	a.logger.Debug("Rendered %s", dst)
	return nil
}

func (a *Applier) copy(src, dst string) error {
	mode, err := sourceMode(src)
	if err != nil {
		return err
	}
	if err := prepareDestination(dst); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	a.logger.Debug("Copied %s", dst)
	return nil
}

// prepareDestination makes the parent directory and takes a one-time
// .bak backup of an existing destination file.
func prepareDestination(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(dst); err != nil {
		return nil // nothing to back up
	}
	backup := dst + ".bak"
	if _, err := os.Stat(backup); err == nil {
		return nil // backup already taken on an earlier run
	}
	return os.Rename(dst, backup)
}

func sourceMode(src string) (fs.FileMode, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}
