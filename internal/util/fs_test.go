package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain title", in: "My Video", want: "My Video"},
		{name: "forbidden characters", in: `a<b>c:d"e/f\g|h?i*j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{name: "trailing dots trimmed", in: "ending...", want: "ending"},
		{name: "surrounding spaces trimmed", in: "  padded  ", want: "padded"},
		{name: "empty", in: "", want: "untitled"},
		{name: "only forbidden", in: "???", want: "untitled"},
		{name: "unicode preserved", in: "日本語タイトル", want: "日本語タイトル"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.in); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle_LongTitle(t *testing.T) {
	long := strings.Repeat("x", MaxTitleRunes+40)
	got := SanitizeTitle(long)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("long title should end with ellipsis, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != MaxTitleRunes+1 {
		t.Errorf("sanitized length = %d runes, want %d", n, MaxTitleRunes+1)
	}
}

func TestNextFreePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")

	// Nothing exists yet: path is returned unchanged.
	if got := NextFreePath(path); got != path {
		t.Fatalf("NextFreePath() = %q, want %q", got, path)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want1 := filepath.Join(dir, "video_1.mp4")
	if got := NextFreePath(path); got != want1 {
		t.Fatalf("NextFreePath() = %q, want %q", got, want1)
	}

	if err := os.WriteFile(want1, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	want2 := filepath.Join(dir, "video_2.mp4")
	if got := NextFreePath(path); got != want2 {
		t.Fatalf("NextFreePath() = %q, want %q", got, want2)
	}
}

func TestMakeWorkDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "tmp")
	dir, err := MakeWorkDir(base, "run")
	if err != nil {
		t.Fatalf("MakeWorkDir() error: %v", err)
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		t.Fatalf("work dir not created: %v", err)
	}
	if filepath.Dir(dir) != base {
		t.Errorf("work dir %q not under base %q", dir, base)
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.tmp")

	// Missing file is not an error.
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists(missing) error: %v", err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after removal")
	}
}
