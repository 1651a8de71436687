// Package muxer invokes ffmpeg to combine a downloaded video-only stream and
// audio-only stream into a single playable file, then verifies the result.
package muxer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ytmux/internal/errs"
	"ytmux/internal/model"
	"ytmux/internal/progress"
	"ytmux/internal/util"
)

// Options control ffmpeg execution.
type Options struct {
	FFmpegPath string
	Verbose    bool
	OutputPath string // Full path of the merged file

	Runner      util.CmdRunner    // nil = default subprocess runner
	Reporter    progress.Reporter // optional
	JobID       string
	DurationSec float64 // source duration, for progress percent; 0 = unknown
}

// Merge combines videoPath and audioPath into opts.OutputPath and verifies
// that ffmpeg exited cleanly and produced a non-empty file.
func Merge(ctx context.Context, videoPath, audioPath string, opts Options) (model.MergedVideo, error) {
	if opts.FFmpegPath == "" {
		return model.MergedVideo{}, errors.New("ffmpeg path is required")
	}
	if opts.OutputPath == "" {
		return model.MergedVideo{}, errors.New("output path is required")
	}
	for _, p := range []string{videoPath, audioPath} {
		if _, err := os.Stat(p); err != nil {
			return model.MergedVideo{}, fmt.Errorf("%w: input stream %s: %v", errs.ErrFilesystem, p, err)
		}
	}
	if err := util.EnsureDir(filepath.Dir(opts.OutputPath)); err != nil {
		return model.MergedVideo{}, fmt.Errorf("%w: ensure output dir: %v", errs.ErrFilesystem, err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}

	includeProgress := opts.Reporter != nil
	var state ProgressState
	var onLine, onStderr func(string)
	if includeProgress {
		onLine = func(line string) {
			if u, ok := state.UpdateFromLine(line, opts.JobID, opts.DurationSec); ok {
				opts.Reporter.Update(u)
			}
		}
		// ffmpeg diagnostics go to stderr; surface them live in the TUI log.
		onStderr = func(line string) {
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		}
	}

	res, runErr := runner.Run(ctx, util.CmdSpec{
		Path:       opts.FFmpegPath,
		Args:       BuildMergeArgs(videoPath, audioPath, opts.OutputPath, includeProgress),
		Verbose:    opts.Verbose,
		StdoutLine: onLine,
		StderrLine: onStderr,
	})
	if runErr != nil {
		// Drop the partial output before reporting.
		_ = util.RemoveIfExists(opts.OutputPath)
		return model.MergedVideo{}, fmt.Errorf("%w: ffmpeg exit %d: %s",
			errs.ErrExternalTool, res.Code, stderrTail(res.Stderr))
	}

	fi, err := os.Stat(opts.OutputPath)
	if err != nil {
		return model.MergedVideo{}, fmt.Errorf("%w: %s", errs.ErrOutputIntegrity, opts.OutputPath)
	}
	if fi.Size() == 0 {
		_ = util.RemoveIfExists(opts.OutputPath)
		return model.MergedVideo{}, fmt.Errorf("%w: %s is empty", errs.ErrOutputIntegrity, opts.OutputPath)
	}

	return model.MergedVideo{OutputPath: opts.OutputPath, Bytes: fi.Size()}, nil
}

func stderrTail(b []byte) string {
	s := string(b)
	const max = 400
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	if s == "" {
		return "(no stderr)"
	}
	return s
}
