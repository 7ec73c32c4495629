package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/macstrap/internal/config"
	"github.com/systmms/macstrap/internal/execenv"
	"github.com/systmms/macstrap/internal/packages"
)

func NewPackagesCommand(cfg *config.Config) *cobra.Command {
	var brewfile string

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Install packages from the Brewfile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			path := brewfile
			if path == "" {
				path = cfg.Definition.Packages.Brewfile
			}

			installer := packages.NewInstaller(cfg.Logger, execenv.New(cfg.Logger))
			return installer.Install(cmd.Context(), path)
		},
	}

	cmd.Flags().StringVar(&brewfile, "brewfile", "", "Brewfile path (overrides config)")

	return cmd
}
