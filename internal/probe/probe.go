// Package probe wraps the external extraction tool (yt-dlp/youtube-dl): it
// fetches metadata and stream-format lists, runs searches, and downloads a
// single stream. All network work happens inside the subprocess.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ytmux/internal/errs"
	"ytmux/internal/model"
	"ytmux/internal/progress"
	"ytmux/internal/util"
)

// Options controls probe behavior.
type Options struct {
	BinPath    string // Path to yt-dlp or youtube-dl
	CookieFile string // Optional cookie jar; omitted from argv when empty
	Verbose    bool

	Runner   util.CmdRunner    // nil = default subprocess runner
	Reporter progress.Reporter // optional, for download progress
	JobID    string
}

func (o Options) runner() util.CmdRunner {
	if o.Runner != nil {
		return o.Runner
	}
	return util.NewDefaultRunner()
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Formats fetches metadata for the given video ID and returns its title,
// duration, and the flat list of available stream formats.
func Formats(ctx context.Context, opts Options, videoID string) (model.VideoDetails, error) {
	if opts.BinPath == "" {
		return model.VideoDetails{}, errors.New("extractor path is required")
	}
	args := []string{"--dump-json", "--no-playlist"}
	args = appendCookieArgs(args, opts.CookieFile)
	args = append(args, WatchURL(videoID))

	res, runErr := opts.runner().Run(ctx, util.CmdSpec{
		Path:    opts.BinPath,
		Args:    args,
		Verbose: opts.Verbose,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return model.VideoDetails{}, fmt.Errorf("%w: metadata fetch: %v: %s",
			errs.ErrExternalTool, runErr, tail(res.Stderr))
	}

	info, err := parseMetadata(res.Stdout)
	if err != nil {
		return model.VideoDetails{}, fmt.Errorf("parse metadata JSON: %w", err)
	}
	return info, nil
}

// Search asks the extractor for up to n results matching query and returns
// the {id, title} pairs.
func Search(ctx context.Context, opts Options, query string, n int) ([]model.Candidate, error) {
	if opts.BinPath == "" {
		return nil, errors.New("extractor path is required")
	}
	if n < 1 {
		n = 1
	}
	args := []string{"--dump-json", "--flat-playlist"}
	args = appendCookieArgs(args, opts.CookieFile)
	args = append(args, fmt.Sprintf("ytsearch%d:%s", n, query))

	res, runErr := opts.runner().Run(ctx, util.CmdSpec{
		Path:    opts.BinPath,
		Args:    args,
		Verbose: opts.Verbose,
	})
	if runErr != nil && len(res.Stdout) == 0 {
		return nil, fmt.Errorf("%w: search: %v: %s", errs.ErrExternalTool, runErr, tail(res.Stderr))
	}

	return parseSearchResults(res.Stdout), nil
}

// Fetch downloads a single stream format to destPath.
func Fetch(ctx context.Context, opts Options, videoID, formatID, destPath string, stage progress.Stage) error {
	if opts.BinPath == "" {
		return errors.New("extractor path is required")
	}
	args := []string{"-f", formatID, "-o", destPath, "--no-playlist"}
	args = appendCookieArgs(args, opts.CookieFile)
	args = append(args, WatchURL(videoID))

	var onStdout, onStderr func(string)
	if opts.Reporter != nil {
		onStdout = func(line string) {
			if u, ok := ParseProgress(line, opts.JobID, stage); ok {
				opts.Reporter.Update(u)
				return
			}
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStdout, Line: line})
		}
		onStderr = func(line string) {
			opts.Reporter.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
		}
	}

	res, runErr := opts.runner().Run(ctx, util.CmdSpec{
		Path:       opts.BinPath,
		Args:       args,
		Verbose:    opts.Verbose,
		StdoutLine: onStdout,
		StderrLine: onStderr,
	})
	if runErr != nil {
		return fmt.Errorf("%w: download format %s: %v: %s",
			errs.ErrExternalTool, formatID, runErr, tail(res.Stderr))
	}
	return nil
}

func appendCookieArgs(args []string, cookieFile string) []string {
	if cookieFile == "" {
		return args
	}
	return append(args, "--cookies", cookieFile)
}

// parseMetadata decodes the metadata JSON, tolerating extra non-JSON lines the
// extractor occasionally prints around it.
func parseMetadata(raw []byte) (model.VideoDetails, error) {
	data := strings.TrimSpace(string(raw))
	var meta metadataJSON
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		lines := strings.Split(data, "\n")
		decoded := false
		for i := len(lines) - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if line == "" {
				continue
			}
			var tmp metadataJSON
			if json.Unmarshal([]byte(line), &tmp) == nil && tmp.ID != "" {
				meta = tmp
				decoded = true
				break
			}
		}
		if !decoded {
			return model.VideoDetails{}, err
		}
	}

	details := model.VideoDetails{
		ID:          meta.ID,
		Title:       meta.Title,
		DurationSec: meta.Duration,
		Formats:     make([]model.StreamFormat, 0, len(meta.Formats)),
	}
	for _, f := range meta.Formats {
		details.Formats = append(details.Formats, model.StreamFormat{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			VideoCodec: f.VideoCodec,
			AudioCodec: f.AudioCodec,
			Bitrate:    f.TBR,
			Filesize:   f.Filesize,
			Width:      f.Width,
			Height:     f.Height,
		})
	}
	return details, nil
}

// parseSearchResults decodes one JSON object per line, skipping lines that are
// not valid entries.
func parseSearchResults(raw []byte) []model.Candidate {
	var out []model.Candidate
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry searchEntryJSON
		if json.Unmarshal([]byte(line), &entry) != nil || entry.ID == "" {
			continue
		}
		out = append(out, model.Candidate{ID: entry.ID, Title: entry.Title})
	}
	return out
}

// tail returns the last portion of captured stderr for error messages.
func tail(b []byte) string {
	s := strings.TrimSpace(string(b))
	const max = 400
	if len(s) > max {
		s = "..." + s[len(s)-max:]
	}
	return s
}
