package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/macstrap/internal/config"
	"github.com/systmms/macstrap/internal/pipeline"
)

func NewGPGCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpg",
		Short: "Fetch the GPG private key from 1Password and import it",
		Long: `Run only the GPG key pipeline: sign in to 1Password, fetch the
key item, derive its identifier, and import it into the keyring unless
it is already present.

The resulting key identifier is printed to stdout, so it can be used
in scripts:

  git config --global user.signingkey "$(macstrap gpg)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			pipe := newGPGPipeline(cfg)
			outcome, err := pipe.Run(cmd.Context())
			if err != nil {
				return err
			}

			switch outcome.Status {
			case pipeline.StatusAlreadyPresent:
				cfg.Logger.Info("Key already present in the keyring")
			case pipeline.StatusImported:
				cfg.Logger.Info("Key imported into the keyring")
			}

			if outcome.KeyID != "" {
				fmt.Println(outcome.KeyID)
			} else {
				cfg.Logger.Warn("No key identifier could be determined")
			}
			return nil
		},
	}

	return cmd
}
