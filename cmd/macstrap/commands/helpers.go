package commands

import (
	"github.com/systmms/macstrap/internal/config"
	"github.com/systmms/macstrap/internal/execenv"
	"github.com/systmms/macstrap/internal/gpg"
	"github.com/systmms/macstrap/internal/pipeline"
	"github.com/systmms/macstrap/internal/secrets"
)

// newGPGPipeline wires the secrets client, identifier, and importer
// from loaded configuration. The config must have been loaded.
func newGPGPipeline(cfg *config.Config) *pipeline.Pipeline {
	runner := execenv.New(cfg.Logger)

	var interactive secrets.InteractiveRunner
	if !cfg.NonInteractive {
		interactive = runner
	}

	client := secrets.NewClient(cfg.Definition.Secrets, cfg.Logger, runner, interactive, cfg.NonInteractive)
	identifier := gpg.NewIdentifier(cfg.Logger, runner)
	importer := gpg.NewImporter(cfg.Logger, runner)

	return pipeline.New(cfg.Logger, client, identifier, importer, cfg.Definition.GPG.KeyID)
}
