package selector

import (
	"strconv"
	"strings"

	"ytmux/internal/model"
)

// ParseHeight parses a resolution cap of the form "720p" or "1920x1080" and
// returns the vertical height. ok is false for anything else.
func ParseHeight(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, false
	}
	if strings.HasSuffix(s, "p") {
		h, err := strconv.Atoi(strings.TrimSuffix(s, "p"))
		if err != nil || h <= 0 {
			return 0, false
		}
		return h, true
	}
	if idx := strings.IndexByte(s, 'x'); idx > 0 {
		h, err := strconv.Atoi(s[idx+1:])
		if err != nil || h <= 0 {
			return 0, false
		}
		if _, err := strconv.Atoi(s[:idx]); err != nil {
			return 0, false
		}
		return h, true
	}
	return 0, false
}

// formatHeight returns the vertical resolution of a stream format, preferring
// the explicit height field over the resolution string.
func formatHeight(f model.StreamFormat) int {
	if f.Height > 0 {
		return f.Height
	}
	if h, ok := ParseHeight(f.Resolution); ok {
		return h
	}
	return 0
}
