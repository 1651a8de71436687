package model

// Candidate is a resolved video the batch loop will process. Title is empty
// when the input was a bare ID or URL and metadata has not been fetched yet.
type Candidate struct {
	ID    string
	Title string
}

// StreamFormat describes one downloadable stream as reported by the extractor.
// A codec value of "none" (or empty) means the stream lacks that track.
type StreamFormat struct {
	FormatID   string
	Ext        string
	Resolution string // e.g. "1920x1080", "audio only", or "unknown"
	VideoCodec string
	AudioCodec string
	Bitrate    float64 // total bitrate in kbps; 0 if unknown
	Filesize   int64   // bytes; 0 if unknown
	Width      int
	Height     int
}

// HasVideo reports whether the format carries a video track.
func (f StreamFormat) HasVideo() bool {
	return f.VideoCodec != "" && f.VideoCodec != "none"
}

// HasAudio reports whether the format carries an audio track.
func (f StreamFormat) HasAudio() bool {
	return f.AudioCodec != "" && f.AudioCodec != "none"
}

// KnownResolution reports whether the extractor provided a usable resolution
// string for this format.
func (f StreamFormat) KnownResolution() bool {
	switch f.Resolution {
	case "", "unknown", "audio only":
		return false
	}
	return true
}

// VideoDetails is the metadata response for a single video: its identity plus
// the flat list of available stream formats.
type VideoDetails struct {
	ID          string
	Title       string
	DurationSec float64
	Formats     []StreamFormat
}

// Selection is the chosen video-only/audio-only format pair for one video.
type Selection struct {
	Video StreamFormat
	Audio StreamFormat
}

// CLIOptions holds user-configurable runtime options as parsed from flags.
type CLIOptions struct {
	OutDir      string
	SkipQuality bool   // Use best-quality defaults, never prompt.
	Force       bool   // Overwrite the exact output path instead of uniquifying.
	Number      int    // Search results to process, clamped to [1,50].
	Suffix      string // Appended to each output basename before the extension.
	MaxHeight   int    // Vertical resolution cap; 0 = uncapped.
	CookieFile  string // Optional cookie jar passed to the extractor.
	DLBinary    string // Optional explicit path to yt-dlp/youtube-dl.
	LogDir      string // Directory for the per-run log file.
	KeepTemp    bool
	Verbose     bool

	NoUI bool // Disable TUI when true.
	Jobs int  // Max concurrent jobs for TUI.
}

// MergedVideo captures the result of a completed fetch-and-mux run.
type MergedVideo struct {
	OutputPath string
	Bytes      int64
}
