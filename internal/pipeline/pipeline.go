// Package pipeline composes the secrets client, key identifier, and
// key importer into the end-to-end fetch → identify → skip-or-import
// flow for the GPG private key.
package pipeline

import (
	"context"

	"github.com/systmms/macstrap/internal/gpg"
	"github.com/systmms/macstrap/internal/logging"
	"github.com/systmms/macstrap/internal/secure"
)

// Status is the terminal state of a pipeline run.
type Status int

const (
	// StatusImported means the key was imported into the permanent
	// keyring during this run.
	StatusImported Status = iota
	// StatusAlreadyPresent means the key was found in the permanent
	// keyring and nothing was mutated.
	StatusAlreadyPresent
)

// Outcome carries the terminal state and the key identifier, which
// downstream steps (dotfile templating) consume. KeyID may be empty
// when no strategy could derive one.
type Outcome struct {
	Status Status
	KeyID  string
}

// SecretsClient is the slice of the 1Password client the pipeline uses.
type SecretsClient interface {
	EnsureSignedIn(ctx context.Context) error
	FetchKeyMaterial(ctx context.Context) (*secure.Buffer, error)
}

// Pipeline runs the GPG key bootstrap flow.
type Pipeline struct {
	logger     *logging.Logger
	secrets    SecretsClient
	identifier *gpg.Identifier
	importer   *gpg.Importer
	explicitID string
}

// New creates a pipeline. explicitID is the operator's configured key
// identifier override; empty means derive one from the key material.
func New(logger *logging.Logger, client SecretsClient, identifier *gpg.Identifier, importer *gpg.Importer, explicitID string) *Pipeline {
	return &Pipeline{
		logger:     logger,
		secrets:    client,
		identifier: identifier,
		importer:   importer,
		explicitID: explicitID,
	}
}

// Run executes SignIn → FetchKey → Identify → Import. Sign-in and fetch
// failures halt before any keyring mutation. Identification failure is
// non-fatal: the import proceeds with an unknown identifier and relies
// on gpg's own "not changed" detection for idempotence.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	if err := p.secrets.EnsureSignedIn(ctx); err != nil {
		return Outcome{}, err
	}

	material, err := p.secrets.FetchKeyMaterial(ctx)
	if err != nil {
		return Outcome{}, err
	}
	defer material.Destroy()

	var outcome Outcome
	err = material.OpenString(func(keyText string) error {
		p.logger.Debug("Key material preview: %s", logging.KeyPreview(keyText))

		id, ok := p.identifier.Identify(ctx, keyText, p.explicitID)
		if !ok {
			p.logger.Warn("Could not derive a key identifier, importing without an ahead-of-time presence check")
		}

		finalID, imported, err := p.importer.ImportIfNeeded(ctx, keyText, id)
		if err != nil {
			return err
		}

		outcome.KeyID = finalID
		if imported {
			outcome.Status = StatusImported
		} else {
			outcome.Status = StatusAlreadyPresent
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	return outcome, nil
}
