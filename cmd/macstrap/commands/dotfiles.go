package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/macstrap/internal/config"
	"github.com/systmms/macstrap/internal/dotfiles"
)

func NewDotfilesCommand(cfg *config.Config) *cobra.Command {
	var gpgKeyID string

	cmd := &cobra.Command{
		Use:   "dotfiles",
		Short: "Apply dotfiles to the target directory",
		Long: `Deploy the dotfile source tree. Files ending in .tmpl are rendered
with the run's variables ({{.GPGKeyID}}, {{.User}}, {{.Home}}); other
files are copied as-is. Existing files are backed up to <name>.bak the
first time they are overwritten.

When run standalone the GPG key id is taken from --gpg-key or the
gpg.key_id config value; 'macstrap setup' feeds in the id produced by
the key import step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			keyID := gpgKeyID
			if keyID == "" {
				keyID = cfg.Definition.GPG.KeyID
			}

			vars, err := dotfileVars(keyID, cfg.Definition.Dotfiles.Target)
			if err != nil {
				return err
			}

			applier := dotfiles.NewApplier(cfg.Logger)
			if err := applier.Apply(cmd.Context(), cfg.Definition.Dotfiles.Source, cfg.Definition.Dotfiles.Target, vars); err != nil {
				return err
			}
			cfg.Logger.Info("Dotfiles applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&gpgKeyID, "gpg-key", "", "GPG key identifier for templates (overrides config)")

	return cmd
}
