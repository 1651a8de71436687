package selector

import (
	"errors"
	"testing"

	"ytmux/internal/errs"
	"ytmux/internal/model"
)

func vf(id, res string, height int, tbr float64, size int64) model.StreamFormat {
	return model.StreamFormat{
		FormatID:   id,
		Ext:        "mp4",
		Resolution: res,
		VideoCodec: "avc1",
		AudioCodec: "none",
		Bitrate:    tbr,
		Filesize:   size,
		Height:     height,
	}
}

func af(id string, tbr float64, size int64) model.StreamFormat {
	return model.StreamFormat{
		FormatID:   id,
		Ext:        "m4a",
		Resolution: "audio only",
		VideoCodec: "none",
		AudioCodec: "mp4a",
		Bitrate:    tbr,
		Filesize:   size,
	}
}

func sampleFormats() []model.StreamFormat {
	return []model.StreamFormat{
		vf("v360", "640x360", 360, 500, 5_000_000),
		af("a-low", 48, 700_000),
		vf("v1080", "1920x1080", 1080, 4000, 40_000_000),
		// Combined format: both tracks present, must be excluded from both subsets.
		{FormatID: "combined", Ext: "mp4", Resolution: "1280x720", VideoCodec: "avc1", AudioCodec: "mp4a", Bitrate: 2500, Height: 720},
		vf("v720", "1280x720", 720, 2000, 20_000_000),
		af("a-high", 128, 2_000_000),
		// Video-only with unknown resolution: excluded.
		{FormatID: "storyboard", Ext: "mhtml", Resolution: "unknown", VideoCodec: "none?", AudioCodec: "none", Bitrate: 1},
	}
}

func TestPartition(t *testing.T) {
	video, audio, err := Partition(sampleFormats())
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}

	wantVideo := []string{"v360", "v720", "v1080"} // ascending by height
	if len(video) != len(wantVideo) {
		t.Fatalf("video subset = %d formats, want %d", len(video), len(wantVideo))
	}
	for i, id := range wantVideo {
		if video[i].FormatID != id {
			t.Errorf("video[%d] = %q, want %q", i, video[i].FormatID, id)
		}
	}

	wantAudio := []string{"a-high", "a-low"} // descending by bitrate
	if len(audio) != len(wantAudio) {
		t.Fatalf("audio subset = %d formats, want %d", len(audio), len(wantAudio))
	}
	for i, id := range wantAudio {
		if audio[i].FormatID != id {
			t.Errorf("audio[%d] = %q, want %q", i, audio[i].FormatID, id)
		}
	}
}

func TestPartition_BitrateTiebreak(t *testing.T) {
	// Same height: order by bitrate, then filesize.
	video, _, err := Partition([]model.StreamFormat{
		vf("high-tbr", "1280x720", 720, 3000, 10),
		vf("low-tbr", "1280x720", 720, 1000, 99),
		af("a", 128, 0),
		vf("mid-tbr-big", "1280x720", 720, 2000, 50),
		vf("mid-tbr-small", "1280x720", 720, 2000, 10),
	})
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	want := []string{"low-tbr", "mid-tbr-small", "mid-tbr-big", "high-tbr"}
	for i, id := range want {
		if video[i].FormatID != id {
			t.Errorf("video[%d] = %q, want %q", i, video[i].FormatID, id)
		}
	}
}

func TestPartition_EmptySubsets(t *testing.T) {
	tests := []struct {
		name    string
		formats []model.StreamFormat
	}{
		{name: "no formats", formats: nil},
		{name: "no audio", formats: []model.StreamFormat{vf("v", "1280x720", 720, 1000, 0)}},
		{name: "no video", formats: []model.StreamFormat{af("a", 128, 0)}},
		{
			name: "video resolution unknown",
			formats: []model.StreamFormat{
				{FormatID: "v", VideoCodec: "avc1", AudioCodec: "none", Resolution: "unknown"},
				af("a", 128, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Partition(tt.formats)
			if !errors.Is(err, errs.ErrFormatUnavailable) {
				t.Errorf("Partition() error = %v, want ErrFormatUnavailable", err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	video, audio, err := Partition(sampleFormats())
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	sel := Default(video, audio)
	if sel.Video.FormatID != "v1080" {
		t.Errorf("default video = %q, want v1080", sel.Video.FormatID)
	}
	if sel.Audio.FormatID != "a-high" {
		t.Errorf("default audio = %q, want a-high", sel.Audio.FormatID)
	}
}

func TestSelectCapped(t *testing.T) {
	video := []model.StreamFormat{
		vf("v360", "640x360", 360, 500, 0),
		vf("v720-low", "1280x720", 720, 1500, 10),
		vf("v720-high", "1280x720", 720, 2500, 20),
		vf("v1080", "1920x1080", 1080, 4000, 0),
	}

	tests := []struct {
		name      string
		maxHeight int
		want      string
		wantErr   bool
	}{
		{name: "cap above all", maxHeight: 2160, want: "v1080"},
		{name: "cap at 720 picks best in group", maxHeight: 720, want: "v720-high"},
		{name: "cap between groups", maxHeight: 900, want: "v720-high"},
		{name: "cap at 360", maxHeight: 360, want: "v360"},
		{name: "cap below all", maxHeight: 144, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectCapped(video, tt.maxHeight)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrFormatUnavailable) {
					t.Fatalf("SelectCapped() error = %v, want ErrFormatUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectCapped() error: %v", err)
			}
			if got.FormatID != tt.want {
				t.Errorf("SelectCapped() = %q, want %q", got.FormatID, tt.want)
			}
		})
	}
}

type recordingPrompter struct {
	answers []int
	calls   []string
}

func (p *recordingPrompter) Choose(what string, options []string, def int) (int, error) {
	p.calls = append(p.calls, what)
	if len(p.answers) == 0 {
		return def, nil
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func TestChoose(t *testing.T) {
	formats := sampleFormats()

	t.Run("skip picks defaults without prompting", func(t *testing.T) {
		p := &recordingPrompter{}
		sel, err := Choose(formats, 0, true, p)
		if err != nil {
			t.Fatalf("Choose() error: %v", err)
		}
		if sel.Video.FormatID != "v1080" || sel.Audio.FormatID != "a-high" {
			t.Errorf("selection = %s/%s, want v1080/a-high", sel.Video.FormatID, sel.Audio.FormatID)
		}
		if len(p.calls) != 0 {
			t.Errorf("prompter consulted %d times, want 0", len(p.calls))
		}
	})

	t.Run("cap takes precedence over prompting", func(t *testing.T) {
		p := &recordingPrompter{}
		sel, err := Choose(formats, 720, false, p)
		if err != nil {
			t.Fatalf("Choose() error: %v", err)
		}
		if sel.Video.FormatID != "v720" {
			t.Errorf("capped video = %q, want v720", sel.Video.FormatID)
		}
		if len(p.calls) != 0 {
			t.Errorf("prompter consulted %d times, want 0", len(p.calls))
		}
	})

	t.Run("prompter answers select formats", func(t *testing.T) {
		p := &recordingPrompter{answers: []int{0, 1}}
		sel, err := Choose(formats, 0, false, p)
		if err != nil {
			t.Fatalf("Choose() error: %v", err)
		}
		if sel.Video.FormatID != "v360" {
			t.Errorf("video = %q, want v360", sel.Video.FormatID)
		}
		if sel.Audio.FormatID != "a-low" {
			t.Errorf("audio = %q, want a-low", sel.Audio.FormatID)
		}
		if len(p.calls) != 2 {
			t.Fatalf("prompter consulted %d times, want 2", len(p.calls))
		}
	})

	t.Run("partition failure propagates", func(t *testing.T) {
		_, err := Choose([]model.StreamFormat{af("a", 128, 0)}, 0, true, nil)
		if !errors.Is(err, errs.ErrFormatUnavailable) {
			t.Errorf("Choose() error = %v, want ErrFormatUnavailable", err)
		}
	})
}
