package cmd

import (
	"github.com/spf13/cobra"
)

func newTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui [flags] input...",
		Short:         "Force TUI batch mode (best-quality selection)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchExecute(cmd, args, runMode{ForceTUI: true})
		},
	}
	bindFetchFlags(cmd.Flags())
	// The TUI never prompts for formats, so hide the prompt-related flag.
	if f := cmd.Flags().Lookup("no-ui"); f != nil {
		f.Hidden = true
	}
	return cmd
}
