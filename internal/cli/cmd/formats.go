package cmd

import (
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "formats [flags] input...",
		Short:         "List available video-only and audio-only formats without downloading",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchExecute(cmd, args, runMode{ListOnly: true})
		},
	}
	bindFetchFlags(cmd.Flags())
	return cmd
}
