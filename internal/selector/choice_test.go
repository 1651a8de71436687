package selector

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ytmux/internal/errs"
	"ytmux/internal/model"
)

func TestAutoPrompter(t *testing.T) {
	got, err := AutoPrompter{}.Choose("video format", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("Choose() error: %v", err)
	}
	if got != 2 {
		t.Errorf("Choose() = %d, want 2", got)
	}
}

func TestConsolePrompter(t *testing.T) {
	options := []string{"mp4 640x360 4.8 MB", "mp4 1280x720 19.1 MB", "mp4 1920x1080 38.1 MB"}

	tests := []struct {
		name    string
		input   string
		def     int
		want    int
		wantErr bool
	}{
		{name: "explicit choice", input: "2\n", def: 0, want: 1},
		{name: "first option", input: "1\n", def: 2, want: 0},
		{name: "empty input selects default", input: "\n", def: 2, want: 2},
		{name: "whitespace selects default", input: "   \n", def: 1, want: 1},
		{name: "EOF without newline selects default", input: "", def: 0, want: 0},
		{name: "out of range high", input: "99\n", wantErr: true},
		{name: "zero is out of range", input: "0\n", wantErr: true},
		{name: "non-numeric", input: "best\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := &ConsolePrompter{In: strings.NewReader(tt.input), Out: &out}
			got, err := p.Choose("video format", options, tt.def)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrInvalidChoice) {
					t.Fatalf("Choose() error = %v, want ErrInvalidChoice", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Choose() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Choose() = %d, want %d", got, tt.want)
			}

			prompt := out.String()
			if !strings.Contains(prompt, "1. "+options[0]) {
				t.Errorf("prompt missing enumerated option: %q", prompt)
			}
			if !strings.Contains(prompt, "video format") {
				t.Errorf("prompt missing subject: %q", prompt)
			}
		})
	}
}

func TestConsolePrompter_ConsecutiveAnswers(t *testing.T) {
	// Both answers arrive in one buffered read when stdin is piped; the second
	// Choose call must see the second line, not fall back to the default.
	var out bytes.Buffer
	p := &ConsolePrompter{In: strings.NewReader("1\n2\n"), Out: &out}

	got, err := p.Choose("video format", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("first Choose() error: %v", err)
	}
	if got != 0 {
		t.Errorf("first Choose() = %d, want 0", got)
	}

	got, err = p.Choose("audio format", []string{"x", "y"}, 0)
	if err != nil {
		t.Fatalf("second Choose() error: %v", err)
	}
	if got != 1 {
		t.Errorf("second Choose() = %d, want 1 (typed answer, not default)", got)
	}
}

func TestLabels(t *testing.T) {
	video := []model.StreamFormat{
		{Ext: "mp4", Resolution: "1280x720", Filesize: 20 * 1024 * 1024},
		{Ext: "webm", Resolution: "1920x1080", Bitrate: 4000},
	}
	labels := VideoLabels(video)
	if len(labels) != 2 {
		t.Fatalf("VideoLabels() = %d labels, want 2", len(labels))
	}
	if !strings.Contains(labels[0], "1280x720") || !strings.Contains(labels[0], "20.0 MB") {
		t.Errorf("label[0] = %q", labels[0])
	}
	if !strings.Contains(labels[1], "4000k") {
		t.Errorf("label[1] = %q, want bitrate fallback", labels[1])
	}

	audio := []model.StreamFormat{{Ext: "m4a"}}
	alabels := AudioLabels(audio)
	if !strings.Contains(alabels[0], "size unknown") {
		t.Errorf("audio label = %q, want size unknown", alabels[0])
	}
}
