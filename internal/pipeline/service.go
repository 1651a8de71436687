// Package pipeline orchestrates the per-video workflow: metadata → format
// selection → download video → download audio → mux → verify → cleanup.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"ytmux/internal/logging"
	"ytmux/internal/model"
	"ytmux/internal/muxer"
	"ytmux/internal/probe"
	"ytmux/internal/progress"
	"ytmux/internal/selector"
	"ytmux/internal/util"
	"ytmux/internal/util/format"
	"ytmux/internal/util/media"
)

// Service runs the fetch-and-mux workflow for one video at a time.
type Service struct {
	dlPath     string
	ffmpegPath string
	workDir    string
	opts       model.CLIOptions
	runner     util.CmdRunner
	reporter   progress.Reporter
	prompter   selector.ChoicePrompter
	log        *slog.Logger
	jobID      string
}

// Option configures a Service.
type Option func(*Service)

// WithDownloaderPath sets the extractor (yt-dlp/youtube-dl) binary path.
func WithDownloaderPath(p string) Option {
	return func(s *Service) { s.dlPath = p }
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) { s.ffmpegPath = p }
}

// WithWorkDir sets the per-run directory for temporary stream files.
func WithWorkDir(dir string) Option {
	return func(s *Service) { s.workDir = dir }
}

// WithCLIOptions sets the user options used for selection and output naming.
func WithCLIOptions(o model.CLIOptions) Option {
	return func(s *Service) { s.opts = o }
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) { s.runner = r }
}

// WithReporter attaches a progress reporter (used by TUI).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) { s.reporter = rp }
}

// WithPrompter sets the format choice provider. Defaults to AutoPrompter.
func WithPrompter(p selector.ChoicePrompter) Option {
	return func(s *Service) { s.prompter = p }
}

// WithLogger sets the run log handle.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) { s.jobID = id }
}

// NewService constructs a Service, applying defaults for missing components.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.prompter == nil {
		s.prompter = selector.AutoPrompter{}
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// Result is the outcome of RunVideo.
type Result struct {
	Candidate model.Candidate
	Title     string
	Selection model.Selection
	Output    *model.MergedVideo
}

// RunVideo executes the full pipeline for one resolved candidate. Failures are
// terminal for this video only; temporary stream files are removed best-effort
// on every exit path.
func (s *Service) RunVideo(ctx context.Context, cand model.Candidate) (res Result, err error) {
	res.Candidate = cand
	log := s.log.With("video", cand.ID)

	if s.dlPath == "" {
		return res, fmt.Errorf("extractor path is required")
	}
	if s.ffmpegPath == "" {
		return res, fmt.Errorf("ffmpeg path is required")
	}

	// Metadata and format list.
	s.emit(progress.StageMetadata, -1, "Fetching formats")
	details, err := probe.Formats(ctx, s.probeOptions(), cand.ID)
	if err != nil {
		log.Error("metadata fetch failed", "err", err)
		return res, fmt.Errorf("metadata: %w", err)
	}
	title := cand.Title
	if details.Title != "" {
		title = details.Title
	}
	if title == "" {
		title = cand.ID
	}
	res.Title = title
	log.Info("metadata fetched", "title", title, "formats", len(details.Formats))

	// Pick the video/audio pair.
	s.emit(progress.StageSelecting, -1, "Selecting formats")
	sel, err := selector.Choose(details.Formats, s.opts.MaxHeight, s.opts.SkipQuality, s.prompter)
	if err != nil {
		log.Error("format selection failed", "err", err)
		return res, fmt.Errorf("select formats: %w", err)
	}
	res.Selection = sel
	log.Info("formats selected",
		"video", sel.Video.FormatID, "resolution", sel.Video.Resolution,
		"audio", sel.Audio.FormatID)

	// Temp stream paths are derived from the video ID inside the per-run
	// work directory.
	videoTmp := filepath.Join(s.workDir, cand.ID+"_video."+extOr(sel.Video.Ext, "mp4"))
	audioTmp := filepath.Join(s.workDir, cand.ID+"_audio."+extOr(sel.Audio.Ext, "m4a"))
	defer func() {
		if err != nil {
			s.cleanupTemp(log, videoTmp, audioTmp)
		}
	}()

	dest := media.DestinationPath(s.opts.OutDir, title, s.opts.Suffix, s.opts.Force)

	// Download both streams back to back.
	s.emit(progress.StageVideo, -1, "Downloading video stream")
	if err = probe.Fetch(ctx, s.probeOptionsReporting(), cand.ID, sel.Video.FormatID, videoTmp, progress.StageVideo); err != nil {
		log.Error("video download failed", "format", sel.Video.FormatID, "err", err)
		return res, fmt.Errorf("download video: %w", err)
	}
	s.emit(progress.StageAudio, -1, "Downloading audio stream")
	if err = probe.Fetch(ctx, s.probeOptionsReporting(), cand.ID, sel.Audio.FormatID, audioTmp, progress.StageAudio); err != nil {
		log.Error("audio download failed", "format", sel.Audio.FormatID, "err", err)
		return res, fmt.Errorf("download audio: %w", err)
	}

	// Mux and verify.
	s.emit(progress.StageMuxing, -1, "Muxing")
	out, err := muxer.Merge(ctx, videoTmp, audioTmp, muxer.Options{
		FFmpegPath:  s.ffmpegPath,
		Verbose:     s.opts.Verbose,
		OutputPath:  dest,
		Runner:      s.runner,
		Reporter:    s.reporter,
		JobID:       s.jobID,
		DurationSec: details.DurationSec,
	})
	if err != nil {
		log.Error("mux failed", "err", err)
		return res, fmt.Errorf("mux: %w", err)
	}

	// Success path cleanup: failures are logged, never fatal.
	if !s.opts.KeepTemp {
		s.cleanupTemp(log, videoTmp, audioTmp)
	}

	log.Info("merged", "output", out.OutputPath, "bytes", out.Bytes)
	s.emit(progress.StageCompleted, 100,
		fmt.Sprintf("Saved: %s (%s)", filepath.Base(out.OutputPath), format.HumanizeBytes(out.Bytes)))
	res.Output = &out
	return res, nil
}

func (s *Service) probeOptions() probe.Options {
	return probe.Options{
		BinPath:    s.dlPath,
		CookieFile: s.opts.CookieFile,
		Verbose:    s.opts.Verbose,
		Runner:     s.runner,
		JobID:      s.jobID,
	}
}

func (s *Service) probeOptionsReporting() probe.Options {
	o := s.probeOptions()
	o.Reporter = s.reporter
	return o
}

func (s *Service) cleanupTemp(log *slog.Logger, paths ...string) {
	for _, p := range paths {
		if err := util.RemoveIfExists(p); err != nil {
			log.Warn("failed to remove temp file", "path", p, "err", err)
		}
	}
}

func (s *Service) emit(stage progress.Stage, percent float64, msg string) {
	if s.reporter == nil {
		return
	}
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   stage,
		Percent: percent,
		Message: msg,
	})
}

func extOr(ext, def string) string {
	if ext == "" {
		return def
	}
	return ext
}
