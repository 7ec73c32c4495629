package gpg

import (
	"context"
	"regexp"
	"strings"

	mserrors "github.com/systmms/macstrap/internal/errors"
	"github.com/systmms/macstrap/internal/execenv"
	"github.com/systmms/macstrap/internal/logging"
)

// successPhrases are the gpg status-stream fragments that signal a
// completed import. "not changed" means the key was already present,
// which counts as success for an idempotent run.
var successPhrases = []string{
	"secret key imported",
	"secret keys imported",
	"public key imported",
	"not changed",
}

// statusKeyPattern pulls the key id out of an import status line like
// "gpg: key ABCD1234ABCD1234: public key imported".
var statusKeyPattern = regexp.MustCompile(`gpg: key ([0-9A-Fa-f]{8,40}):`)

// Importer imports key material into the permanent keyring at most once
// per identifier per run.
type Importer struct {
	logger *logging.Logger
	runner execenv.Runner
}

// NewImporter creates a key importer.
func NewImporter(logger *logging.Logger, runner execenv.Runner) *Importer {
	return &Importer{logger: logger, runner: runner}
}

// ImportIfNeeded imports the key unless the identifier is already
// present in the permanent keyring. Returns the identifier, which may
// have been recovered from the import status when it was unknown going
// in (or empty when it remains unknown), and whether the keyring was
// mutated.
func (imp *Importer) ImportIfNeeded(ctx context.Context, keyText, id string) (string, bool, error) {
	if id != "" && imp.isPresent(ctx, id) {
		imp.logger.Info("GPG key %s already imported, skipping", id)
		return id, false, nil
	}

	result, err := importKey(ctx, imp.runner, nil, keyText)
	if err != nil {
		return "", false, mserrors.ImportError{Err: err}
	}
	if !result.Success || !containsSuccessPhrase(result.Stderr) {
		return "", false, mserrors.ImportError{Stderr: result.Stderr}
	}

	imp.logger.Info("GPG key imported")
	if id != "" {
		return id, true, nil
	}
	return imp.recoverIdentifier(ctx, result.Stderr), true, nil
}

// isPresent asks the permanent keyring about the identifier. gpg exits
// non-zero when the query matches nothing.
func (imp *Importer) isPresent(ctx context.Context, id string) bool {
	result, err := listSecretKeys(ctx, imp.runner, nil, id)
	return err == nil && result.Success
}

// recoverIdentifier extracts the identifier after a successful import
// with no identifier known up front: first from the import status line,
// then from the now-updated permanent keyring. May still come up empty;
// callers tolerate that.
func (imp *Importer) recoverIdentifier(ctx context.Context, importStatus string) string {
	if m := statusKeyPattern.FindStringSubmatch(importStatus); m != nil {
		return m[1]
	}

	listed, err := listSecretKeys(ctx, imp.runner, nil, "")
	if err != nil || !listed.Success {
		return ""
	}
	id, _ := ParseSecretKeyID(listed.Stdout)
	return id
}

func containsSuccessPhrase(status string) bool {
	for _, phrase := range successPhrases {
		if strings.Contains(status, phrase) {
			return true
		}
	}
	return false
}
