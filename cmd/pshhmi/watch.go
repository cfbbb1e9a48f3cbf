package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/pshhmi/internal/app"
)

func newWatchCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the coordinator and log state changes",
		Long:  "watch runs the poller without the terminal UI and logs every change of the station state to stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Watch(cmd.Context(), *opts, cmd.ErrOrStderr())
		},
	}
}
