package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxTitleRunes caps sanitized titles; longer titles are truncated and marked
// with an ellipsis.
const MaxTitleRunes = 80

const ellipsis = "…"

// SanitizeTitle makes a video title safe as a filename: the characters
// <>:"/\|?* are replaced with underscores, surrounding whitespace and dots
// are trimmed, and the result is capped at MaxTitleRunes runes plus an
// ellipsis marker.
func SanitizeTitle(s string) string {
	const forbidden = `<>:"/\|?*`
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbidden, r) {
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, " .")
	if s == "" {
		return "untitled"
	}
	if utf8.RuneCountInString(s) > MaxTitleRunes {
		runes := []rune(s)
		s = string(runes[:MaxTitleRunes]) + ellipsis
	}
	return s
}

// NextFreePath returns path if it does not exist, else the first variant with
// an incrementing counter inserted before the extension (name_1.mp4,
// name_2.mp4, ...).
func NextFreePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// MakeWorkDir creates a unique per-run temp directory under base.
func MakeWorkDir(base, prefix string) (string, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(base, prefix+"-")
}

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// RemoveIfExists deletes the file if present.
func RemoveIfExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	} else if os.IsNotExist(err) {
		return nil
	} else {
		return err
	}
}
