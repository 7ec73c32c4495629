package gpg

import (
	"context"
	"regexp"

	"github.com/systmms/macstrap/internal/execenv"
	"github.com/systmms/macstrap/internal/logging"
)

var (
	fingerprintPattern = regexp.MustCompile(`\b[0-9A-Fa-f]{40}\b`)
	shortIDPattern     = regexp.MustCompile(`\b[0-9A-Fa-f]{16}\b`)
	emailPattern       = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// Identifier derives a stable identifier for a private-key blob.
type Identifier struct {
	logger *logging.Logger
	runner execenv.Runner
}

// NewIdentifier creates a key identifier.
func NewIdentifier(logger *logging.Logger, runner execenv.Runner) *Identifier {
	return &Identifier{logger: logger, runner: runner}
}

// Identify returns an identifier for the key, trying in order:
//
//  1. the explicit configured override, returned unchecked;
//  2. pattern matching the raw text for a 40-hex fingerprint, a 16-hex
//     short id, or an email address, first match wins;
//  3. importing into a disposable keyring and reading the sec record.
//
// The textual match is a best-effort guess: an incidental hex run or
// email-like substring in the armored block's comments will be picked
// up. Returns ok=false when every strategy fails.
func (i *Identifier) Identify(ctx context.Context, keyText, explicitID string) (string, bool) {
	if explicitID != "" {
		i.logger.Debug("Using configured key identifier: %s", explicitID)
		return explicitID, true
	}

	if id, ok := matchIdentifier(keyText); ok {
		i.logger.Debug("Identified key from content: %s", id)
		return id, true
	}

	id, err := i.identifyByImport(ctx, keyText)
	if err != nil {
		i.logger.Debug("Ephemeral keyring identification failed: %v", err)
		return "", false
	}
	if id == "" {
		return "", false
	}
	i.logger.Debug("Identified key via ephemeral keyring: %s", id)
	return id, true
}

// matchIdentifier applies the textual strategies in priority order.
func matchIdentifier(keyText string) (string, bool) {
	if m := fingerprintPattern.FindString(keyText); m != "" {
		return m, true
	}
	if m := shortIDPattern.FindString(keyText); m != "" {
		return m, true
	}
	if m := emailPattern.FindString(keyText); m != "" {
		return m, true
	}
	return "", false
}

// identifyByImport imports the key into a disposable keyring solely to
// read its identifier back, then discards the keyring.
func (i *Identifier) identifyByImport(ctx context.Context, keyText string) (string, error) {
	var id string
	err := withEphemeralKeyring(func(env map[string]string) error {
		result, err := importKey(ctx, i.runner, env, keyText)
		if err != nil {
			return err
		}
		if !result.Success {
			i.logger.Debug("Ephemeral import exited with code %d", result.ExitCode)
			return nil
		}

		listed, err := listSecretKeys(ctx, i.runner, env, "")
		if err != nil {
			return err
		}
		if !listed.Success {
			return nil
		}
		id, _ = ParseSecretKeyID(listed.Stdout)
		return nil
	})
	return id, err
}
