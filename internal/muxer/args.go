package muxer

// BuildMergeArgs constructs the ffmpeg argument list for combining a
// video-only and an audio-only file: the video stream is copied verbatim and
// the audio stream is re-encoded to AAC.
func BuildMergeArgs(videoPath, audioPath, outputPath string, includeProgress bool) []string {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-movflags", "+faststart",
	}
	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, outputPath)
}
