package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/pshhmi/internal/app"
)

func newManualCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:       "manual on|off",
		Short:     "Switch the coordinator between manual and automatic control",
		Long:      "manual sends one POST /manual to the coordinator and exits non-zero if it fails.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			manual, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			if err := app.SetManual(cmd.Context(), *opts, manual); err != nil {
				return err
			}
			mode := "AUTO"
			if manual {
				mode = "MANUAL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "control mode set to %s\n", mode)
			return nil
		},
	}
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "1", "true", "manual":
		return true, nil
	case "off", "0", "false", "auto":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}
