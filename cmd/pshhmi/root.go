package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/pshhmi/internal/app"
)

// newRootCmd builds the command tree. The bare command starts the operator
// terminal.
func newRootCmd() *cobra.Command {
	opts := &app.Options{}

	root := &cobra.Command{
		Use:           "pshhmi",
		Short:         "Operator terminal for a pumped water-transfer station",
		Long:          "pshhmi polls the station coordinator and shows time of day, water level, gate and pump, with manual override of gate and pump.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), *opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config path (default ~/.config/pshhmi/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences path (default ~/.config/pshhmi/prefs.toml)")
	flags.IntVar(&opts.PollEvery, "poll", 0, "poll interval in seconds (default from config, 5s)")
	flags.StringVar(&opts.APIBind, "api", "", "coordinator address host:port (overrides api_bind)")
	flags.StringVar(&opts.Protocol, "protocol", "", "coordinator protocol: auto, mode or legacy")

	root.AddCommand(newWatchCmd(opts), newManualCmd(opts))
	return root
}
