package muxer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytmux/internal/errs"
	"ytmux/internal/progress"
	"ytmux/internal/util"
)

type fakeFFmpeg struct {
	outputBytes int64 // size of the file to create; 0 = do not create
	exitCode    int
	stderr      string
}

func (f *fakeFFmpeg) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	if spec.StderrLine != nil && f.stderr != "" {
		spec.StderrLine(f.stderr)
	}
	if f.exitCode != 0 {
		res := util.CmdResult{Stderr: []byte(f.stderr), Code: f.exitCode}
		return res, errors.New("command failed")
	}
	if f.outputBytes > 0 {
		out := spec.Args[len(spec.Args)-1]
		if err := os.WriteFile(out, make([]byte, f.outputBytes), 0o644); err != nil {
			return util.CmdResult{}, err
		}
	}
	return util.CmdResult{}, nil
}

func writeStreams(t *testing.T, dir string) (video, audio string) {
	t.Helper()
	video = filepath.Join(dir, "abc12345678_video.mp4")
	audio = filepath.Join(dir, "abc12345678_audio.m4a")
	for _, p := range []string{video, audio} {
		if err := os.WriteFile(p, []byte("stream"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return video, audio
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	video, audio := writeStreams(t, dir)
	out := filepath.Join(dir, "out", "final.mp4")

	got, err := Merge(context.Background(), video, audio, Options{
		FFmpegPath: "/bin/ffmpeg",
		OutputPath: out,
		Runner:     &fakeFFmpeg{outputBytes: 2048},
	})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if got.OutputPath != out {
		t.Errorf("OutputPath = %q, want %q", got.OutputPath, out)
	}
	if got.Bytes != 2048 {
		t.Errorf("Bytes = %d, want 2048", got.Bytes)
	}
}

func TestMerge_FFmpegFailure(t *testing.T) {
	dir := t.TempDir()
	video, audio := writeStreams(t, dir)
	out := filepath.Join(dir, "final.mp4")

	// Simulate ffmpeg dying after creating a partial file.
	if err := os.WriteFile(out, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Merge(context.Background(), video, audio, Options{
		FFmpegPath: "/bin/ffmpeg",
		OutputPath: out,
		Runner:     &fakeFFmpeg{exitCode: 1, stderr: "Error: codec not found"},
	})
	if !errors.Is(err, errs.ErrExternalTool) {
		t.Fatalf("Merge() error = %v, want ErrExternalTool", err)
	}
	if !strings.Contains(err.Error(), "codec not found") {
		t.Errorf("error %q should carry ffmpeg stderr", err)
	}
	if !strings.Contains(err.Error(), "exit 1") {
		t.Errorf("error %q should carry the exit code", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("partial output should be removed after failure")
	}
}

type recordingReporter struct {
	updates []progress.Update
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update) { r.updates = append(r.updates, u) }
func (r *recordingReporter) Log(l progress.Log)       { r.logs = append(r.logs, l) }
func (r *recordingReporter) Result(progress.Result)   {}

func TestMerge_ReportsStderrLines(t *testing.T) {
	dir := t.TempDir()
	video, audio := writeStreams(t, dir)
	rep := &recordingReporter{}

	_, err := Merge(context.Background(), video, audio, Options{
		FFmpegPath: "/bin/ffmpeg",
		OutputPath: filepath.Join(dir, "final.mp4"),
		Runner:     &fakeFFmpeg{outputBytes: 1024, stderr: "Stream #0:0: Video: h264"},
		Reporter:   rep,
		JobID:      "job-1",
	})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if len(rep.logs) != 1 {
		t.Fatalf("logs = %d entries, want 1", len(rep.logs))
	}
	l := rep.logs[0]
	if l.Stream != progress.StreamStderr || l.JobID != "job-1" || !strings.Contains(l.Line, "h264") {
		t.Errorf("log entry = %+v", l)
	}
}

func TestMerge_EmptyOutput(t *testing.T) {
	dir := t.TempDir()
	video, audio := writeStreams(t, dir)
	out := filepath.Join(dir, "final.mp4")

	_, err := Merge(context.Background(), video, audio, Options{
		FFmpegPath: "/bin/ffmpeg",
		OutputPath: out,
		Runner:     &fakeFFmpeg{}, // exits 0 but writes nothing
	})
	if !errors.Is(err, errs.ErrOutputIntegrity) {
		t.Fatalf("Merge() error = %v, want ErrOutputIntegrity", err)
	}
}

func TestMerge_MissingInput(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "a.m4a")
	if err := os.WriteFile(audio, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Merge(context.Background(), filepath.Join(dir, "missing.mp4"), audio, Options{
		FFmpegPath: "/bin/ffmpeg",
		OutputPath: filepath.Join(dir, "out.mp4"),
		Runner:     &fakeFFmpeg{outputBytes: 10},
	})
	if !errors.Is(err, errs.ErrFilesystem) {
		t.Fatalf("Merge() error = %v, want ErrFilesystem", err)
	}
}
