package selector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ytmux/internal/errs"
	"ytmux/internal/model"
	"ytmux/internal/util/format"
)

// ChoicePrompter selects one entry from a labeled list of options.
// def is the zero-based index returned for an empty answer.
type ChoicePrompter interface {
	Choose(what string, options []string, def int) (int, error)
}

// AutoPrompter always returns the default. It backs non-interactive runs and
// the TUI, which cannot stop for stdin.
type AutoPrompter struct{}

// Choose implements ChoicePrompter.
func (AutoPrompter) Choose(_ string, _ []string, def int) (int, error) {
	return def, nil
}

// ConsolePrompter prints an enumerated list and reads a 1-based index from In.
// Empty input selects the default; out-of-range or non-numeric input fails
// with ErrInvalidChoice, aborting the current video only.
//
// Consecutive Choose calls share one buffered reader, so input buffered past
// the first answer (piped stdin) is not lost between calls.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

// Choose implements ChoicePrompter.
func (p *ConsolePrompter) Choose(what string, options []string, def int) (int, error) {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}

	fmt.Fprintf(p.Out, "Available %ss:\n", what)
	for i, opt := range options {
		fmt.Fprintf(p.Out, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(p.Out, "Enter the number of the %s to download [default: %d]: ", what, def+1)

	line, err := p.r.ReadString('\n')
	if err != nil && line == "" && err != io.EOF {
		return 0, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return 0, fmt.Errorf("%w: %q (expected 1-%d)", errs.ErrInvalidChoice, line, len(options))
	}
	return n - 1, nil
}

// VideoLabels renders one prompt line per video-only format.
func VideoLabels(video []model.StreamFormat) []string {
	labels := make([]string, len(video))
	for i, f := range video {
		labels[i] = fmt.Sprintf("%s %s %s", f.Ext, f.Resolution, sizeLabel(f))
	}
	return labels
}

// AudioLabels renders one prompt line per audio-only format.
func AudioLabels(audio []model.StreamFormat) []string {
	labels := make([]string, len(audio))
	for i, f := range audio {
		labels[i] = fmt.Sprintf("%s %s", f.Ext, sizeLabel(f))
	}
	return labels
}

func sizeLabel(f model.StreamFormat) string {
	if f.Filesize > 0 {
		return format.HumanizeBytes(f.Filesize)
	}
	if f.Bitrate > 0 {
		return fmt.Sprintf("%.0fk", f.Bitrate)
	}
	return "size unknown"
}
