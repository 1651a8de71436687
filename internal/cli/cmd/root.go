package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ytmux/internal/config"
)

const (
	ExitOK = 0
	// ExitFailure covers missing input, bad flags, zero candidates, and any
	// failed video in the batch.
	ExitFailure    = 1
	ExitMissingDep = 2
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ytmux [flags] input...",
		Short:         "Fetch YouTube video and audio streams separately and mux them",
		Long:          "ytmux resolves a video ID, URL, or search query; downloads the chosen video-only and audio-only streams with yt-dlp; and muxes them into a single MP4 with ffmpeg (video copied, audio re-encoded to AAC). Multiple arguments are joined into one input string, so unquoted search queries work.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchExecute(cmd, args, runMode{})
		},
	}

	// Persistent flags available to all subcommands
	root.PersistentFlags().StringP("output", "o", "", "Destination directory (default \"download\")")
	root.PersistentFlags().BoolP("verbose", "v", false, "Show full subprocess commands/output")
	root.PersistentFlags().String("dl-binary", "", "Path to yt-dlp or youtube-dl")
	root.PersistentFlags().String("cookies", "", "Cookie file passed to the extractor")
	root.PersistentFlags().String("log-dir", "", "Directory for per-run log files")
	root.PersistentFlags().Int("jobs", 1, "Max concurrent jobs in TUI")

	// Also bind fetch flags on root, so `ytmux <input>` works without a subcommand.
	bindFetchFlags(root.Flags())

	// Subcommands
	root.AddCommand(newFetchCmd())
	root.AddCommand(newFormatsCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	_ = config.Init(root)

	return root
}

func bindFetchFlags(fs *pflag.FlagSet) {
	fs.BoolP("skip-quality", "s", false, "Use best-quality defaults, suppress the format prompt")
	fs.BoolP("force", "f", false, "Overwrite an existing output file instead of uniquifying")
	fs.IntP("number", "n", 5, "Number of search results to process (1-50)")
	fs.String("suffix", "", "String appended to each output filename before the extension")
	fs.String("max-res", "", "Vertical resolution cap (\"720p\" or \"1920x1080\")")
	fs.Bool("keep-temp", false, "Keep intermediate stream downloads")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

// Helpers
func getPersistentString(cmd *cobra.Command, name, def string) string {
	v, err := cmd.InheritedFlags().GetString(name)
	if err != nil || v == "" {
		// Root has no inherited flags; fall back to its own flag set.
		if v2, err2 := cmd.Flags().GetString(name); err2 == nil && v2 != "" {
			return v2
		}
		return def
	}
	return v
}

func getPersistentBool(cmd *cobra.Command, name string, def bool) bool {
	if v, err := cmd.InheritedFlags().GetBool(name); err == nil {
		return v
	}
	if v, err := cmd.Flags().GetBool(name); err == nil {
		return v
	}
	return def
}

func getPersistentInt(cmd *cobra.Command, name string, def int) int {
	if v, err := cmd.InheritedFlags().GetInt(name); err == nil {
		return v
	}
	if v, err := cmd.Flags().GetInt(name); err == nil {
		return v
	}
	return def
}

func ensureDir(path string) error {
	if path == "" {
		path = "."
	}
	return os.MkdirAll(filepath.Clean(path), 0o755)
}
