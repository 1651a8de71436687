// Package media builds destination filenames for merged videos.
package media

import (
	"path/filepath"

	"ytmux/internal/util"
)

// OutputBasename derives the output basename (without extension) from a video
// title and optional suffix. Both parts are sanitized.
func OutputBasename(title, suffix string) string {
	base := util.SanitizeTitle(title)
	if suffix != "" {
		base += util.SanitizeTitle(suffix)
	}
	return base
}

// DestinationPath computes the final merged-file path inside dir.
// With force the exact path is returned and an existing file will be
// overwritten by the muxer; otherwise an incrementing counter is appended
// until the path is free.
func DestinationPath(dir, title, suffix string, force bool) string {
	path := filepath.Join(dir, OutputBasename(title, suffix)+".mp4")
	if force {
		return path
	}
	return util.NextFreePath(path)
}
