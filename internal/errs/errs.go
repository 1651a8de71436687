// Package errs defines the sentinel errors the batch loop classifies on.
// Stage code wraps these with %w so callers can use errors.Is without
// depending on message text.
package errs

import "errors"

var (
	// ErrNoCandidates indicates the input resolved to zero videos
	// (no ID derivable and the search came back empty).
	ErrNoCandidates = errors.New("no candidate videos found")
	// ErrFormatUnavailable indicates an empty video-only or audio-only
	// subset, or no format satisfying the resolution cap.
	ErrFormatUnavailable = errors.New("no suitable format available")
	// ErrInvalidChoice indicates an out-of-range interactive selection.
	ErrInvalidChoice = errors.New("invalid format choice")
	// ErrExternalTool indicates a non-zero exit from the muxer or extractor.
	ErrExternalTool = errors.New("external tool failed")
	// ErrOutputIntegrity indicates the merged output is missing or empty.
	ErrOutputIntegrity = errors.New("output file missing or empty")
	// ErrFilesystem indicates a temp file or directory operation failed.
	ErrFilesystem = errors.New("filesystem operation failed")
)
