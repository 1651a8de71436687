package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ytmux/internal/dirs"
	"ytmux/internal/logging"
	"ytmux/internal/model"
	"ytmux/internal/pipeline"
	"ytmux/internal/probe"
	"ytmux/internal/resolver"
	"ytmux/internal/selector"
	"ytmux/internal/ui"
	"ytmux/internal/util"
	"ytmux/internal/util/deps"
	"ytmux/internal/util/format"
)

type runMode struct {
	ForceTUI bool
	ListOnly bool // metadata + format listing, no downloads
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fetch [flags] input...",
		Short:         "Resolve, download, and mux one or more videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchExecute(cmd, args, runMode{})
		},
	}
	bindFetchFlags(cmd.Flags())
	return cmd
}

// assembleFetchInputs collects flags into CLIOptions and joins the positional
// arguments into the single input string.
func assembleFetchInputs(cmd *cobra.Command, args []string) (string, model.CLIOptions, error) {
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		return "", model.CLIOptions{}, errors.New("no input given: expected a video ID, URL, or search query")
	}

	outDir := getPersistentString(cmd, "output", dirs.DefaultOutputDir)
	verbose := getPersistentBool(cmd, "verbose", false)
	dlBinary := getPersistentString(cmd, "dl-binary", "")
	cookieFile := getPersistentString(cmd, "cookies", "")
	logDir := getPersistentString(cmd, "log-dir", "")
	jobs := getPersistentInt(cmd, "jobs", 1)
	if jobs <= 0 {
		jobs = 1
	}

	skipQuality, _ := cmd.Flags().GetBool("skip-quality")
	force, _ := cmd.Flags().GetBool("force")
	number, _ := cmd.Flags().GetInt("number")
	suffix, _ := cmd.Flags().GetString("suffix")
	maxRes, _ := cmd.Flags().GetString("max-res")
	keepTemp, _ := cmd.Flags().GetBool("keep-temp")
	noUI, _ := cmd.Flags().GetBool("no-ui")

	// Clamp the search result count to [1,50].
	if number < 1 {
		number = 1
	}
	if number > 50 {
		number = 50
	}

	maxHeight := 0
	if maxRes != "" {
		h, ok := selector.ParseHeight(maxRes)
		if !ok {
			return "", model.CLIOptions{}, fmt.Errorf("invalid --max-res: %q (expected \"720p\" or \"1920x1080\")", maxRes)
		}
		maxHeight = h
	}

	if dlBinary == "" {
		dlBinary = os.Getenv("YTMUX_DL_BINARY")
	}
	if logDir == "" {
		if d, err := dirs.DefaultLogDir(); err == nil {
			logDir = d
		} else {
			logDir = "logs"
		}
	}

	opts := model.CLIOptions{
		OutDir:      filepath.Clean(outDir),
		SkipQuality: skipQuality,
		Force:       force,
		Number:      number,
		Suffix:      suffix,
		MaxHeight:   maxHeight,
		CookieFile:  cookieFile,
		DLBinary:    dlBinary,
		LogDir:      logDir,
		KeepTemp:    keepTemp,
		Verbose:     verbose,
		NoUI:        noUI,
		Jobs:        jobs,
	}
	return input, opts, nil
}

func fetchExecute(cmd *cobra.Command, args []string, mode runMode) error {
	input, opts, err := assembleFetchInputs(cmd, args)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	dlPath, derr := deps.FindDownloader(opts.DLBinary)
	if derr != nil {
		return &ExitError{Code: ExitMissingDep, Err: derr}
	}
	ffmpegPath, ferr := deps.FindFFmpeg()
	if !mode.ListOnly && ferr != nil {
		return &ExitError{Code: ExitMissingDep, Err: ferr}
	}

	// TUI cannot stop for format prompts, so it implies best-quality defaults.
	useTUI := mode.ForceTUI || (opts.SkipQuality && !opts.NoUI && isTerminal())
	if mode.ListOnly {
		useTUI = false
	}
	if mode.ForceTUI {
		opts.SkipQuality = true
	}

	// Run log: echo to the console except under the TUI, which owns the screen.
	log, closer, lerr := logging.NewRunLogger(opts.LogDir, !useTUI, opts.Verbose)
	if lerr != nil {
		return &ExitError{Code: ExitFailure, Err: lerr}
	}
	defer closer.Close()

	// Resolve the input to candidates before any downloading.
	probeOpts := probe.Options{
		BinPath:    dlPath,
		CookieFile: opts.CookieFile,
		Verbose:    opts.Verbose,
	}
	searcher := resolver.SearcherFunc(func(ctx context.Context, query string, n int) ([]model.Candidate, error) {
		return probe.Search(ctx, probeOpts, query, n)
	})
	candidates, rerr := resolver.Resolve(cmd.Context(), input, opts.Number, searcher)
	if rerr != nil {
		log.Error("input resolution failed", "input", input, "err", rerr)
		return &ExitError{Code: ExitFailure, Err: rerr}
	}
	log.Info("input resolved", "input", input, "candidates", len(candidates))

	if mode.ListOnly {
		return listFormats(cmd, candidates, probeOpts)
	}

	if err := ensureDir(opts.OutDir); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("failed to create output dir: %v", err)}
	}

	// Per-run work directory for temporary stream files.
	tempBase, terr := dirs.TempBaseDir()
	if terr != nil {
		tempBase = os.TempDir()
	}
	workDir, werr := util.MakeWorkDir(tempBase, "run")
	if werr != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("create work dir: %v", werr)}
	}
	defer func() {
		if !opts.KeepTemp {
			_ = os.RemoveAll(workDir)
		}
	}()

	if useTUI {
		if err := ui.Run(cmd.Context(), candidates, opts, dlPath, ffmpegPath, workDir, log); err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}
		return nil
	}

	return runBatch(cmd, candidates, opts, dlPath, ffmpegPath, workDir, log)
}

// runBatch processes candidates sequentially. A failed video is logged and
// counted; the loop continues with the next one.
func runBatch(cmd *cobra.Command, candidates []model.Candidate, opts model.CLIOptions, dlPath, ffmpegPath, workDir string, log *slog.Logger) error {
	var prompter selector.ChoicePrompter = selector.AutoPrompter{}
	if !opts.SkipQuality && opts.MaxHeight == 0 && isTerminal() {
		prompter = &selector.ConsolePrompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	}

	svc := pipeline.NewService(
		pipeline.WithDownloaderPath(dlPath),
		pipeline.WithFFmpegPath(ffmpegPath),
		pipeline.WithWorkDir(workDir),
		pipeline.WithCLIOptions(opts),
		pipeline.WithPrompter(prompter),
		pipeline.WithLogger(log),
	)

	failed := 0
	for _, cand := range candidates {
		res, err := svc.RunVideo(cmd.Context(), cand)
		if err != nil {
			failed++
			log.Error("video failed", "video", cand.ID, "err", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %v\n", cand.ID, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (%s)\n",
			res.Output.OutputPath, format.HumanizeBytes(res.Output.Bytes))
	}

	if failed > 0 {
		return &ExitError{
			Code: ExitFailure,
			Err:  fmt.Errorf("%d of %d video(s) failed", failed, len(candidates)),
		}
	}
	return nil
}

func listFormats(cmd *cobra.Command, candidates []model.Candidate, probeOpts probe.Options) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, cand := range candidates {
		details, err := probe.Formats(cmd.Context(), probeOpts, cand.ID)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %v\n", cand.ID, err)
			continue
		}
		video, audio, err := selector.Partition(details.Formats)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s: %v\n", cand.ID, err)
			continue
		}
		fmt.Fprintf(out, "%s — %s\n", details.ID, details.Title)
		fmt.Fprintln(out, "  Video-only formats:")
		for i, label := range selector.VideoLabels(video) {
			fmt.Fprintf(out, "    %d. %s\n", i+1, label)
		}
		fmt.Fprintln(out, "  Audio-only formats:")
		for i, label := range selector.AudioLabels(audio) {
			fmt.Fprintf(out, "    %d. %s\n", i+1, label)
		}
	}
	if failed > 0 {
		return &ExitError{
			Code: ExitFailure,
			Err:  fmt.Errorf("%d of %d video(s) failed", failed, len(candidates)),
		}
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
