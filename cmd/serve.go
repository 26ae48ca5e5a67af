package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Start(cmd.Context(), bootstrap.Options{
				ConfigPath: cfgFile,
				Debug:      debug,
				Version:    Version,
			})
		},
	}
}
