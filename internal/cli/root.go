package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the patientrecords command tree. Running it bare
// opens the browser.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	browse := NewBrowseCommand(opts)
	cmd := &cobra.Command{
		Use:           "patientrecords",
		Short:         "Browse patient records in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          browse.RunE,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $PATIENTRECORDS_CONFIG or ~/.config/patientrecords/config.toml)")

	cmd.AddCommand(browse)
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}
