// Package selector partitions stream formats and picks the video/audio pair
// to download, either automatically (best quality, optionally capped) or via
// an injected prompter.
package selector

import (
	"fmt"
	"sort"

	"ytmux/internal/errs"
	"ytmux/internal/model"
)

// Partition splits formats into the video-only and audio-only subsets.
// Video-only requires a video track, no audio track, and a known resolution;
// audio-only requires an audio track and no video track.
//
// The video subset is sorted ascending by (height, bitrate, filesize) so its
// last element is the best pick; the audio subset is sorted descending by
// (bitrate, filesize) so its first element is the best pick. Selection
// therefore never depends on the extractor's source ordering.
func Partition(formats []model.StreamFormat) (video, audio []model.StreamFormat, err error) {
	for _, f := range formats {
		switch {
		case f.HasVideo() && !f.HasAudio() && f.KnownResolution():
			video = append(video, f)
		case f.HasAudio() && !f.HasVideo():
			audio = append(audio, f)
		}
	}
	if len(video) == 0 || len(audio) == 0 {
		return nil, nil, fmt.Errorf("%w: %d video-only, %d audio-only formats",
			errs.ErrFormatUnavailable, len(video), len(audio))
	}

	sort.SliceStable(video, func(i, j int) bool {
		return videoLess(video[i], video[j])
	})
	sort.SliceStable(audio, func(i, j int) bool {
		return audioLess(audio[j], audio[i])
	})
	return video, audio, nil
}

func videoLess(a, b model.StreamFormat) bool {
	if ha, hb := formatHeight(a), formatHeight(b); ha != hb {
		return ha < hb
	}
	if a.Bitrate != b.Bitrate {
		return a.Bitrate < b.Bitrate
	}
	return a.Filesize < b.Filesize
}

func audioLess(a, b model.StreamFormat) bool {
	if a.Bitrate != b.Bitrate {
		return a.Bitrate < b.Bitrate
	}
	return a.Filesize < b.Filesize
}

// Default returns the best-quality pair: the last element of the sorted video
// subset and the first element of the sorted audio subset.
func Default(video, audio []model.StreamFormat) model.Selection {
	return model.Selection{
		Video: video[len(video)-1],
		Audio: audio[0],
	}
}

// SelectCapped picks the best video format whose height does not exceed
// maxHeight: the remaining formats are grouped by exact resolution string, the
// group with the greatest height wins, and within that group the format with
// the highest (bitrate, filesize) tuple is chosen.
func SelectCapped(video []model.StreamFormat, maxHeight int) (model.StreamFormat, error) {
	groups := make(map[string][]model.StreamFormat)
	bestHeight := 0
	var bestRes string
	for _, f := range video {
		h := formatHeight(f)
		if h == 0 || h > maxHeight {
			continue
		}
		groups[f.Resolution] = append(groups[f.Resolution], f)
		if h > bestHeight {
			bestHeight = h
			bestRes = f.Resolution
		}
	}
	if bestRes == "" {
		return model.StreamFormat{}, fmt.Errorf("%w: no video format within %dp",
			errs.ErrFormatUnavailable, maxHeight)
	}

	group := groups[bestRes]
	best := group[0]
	for _, f := range group[1:] {
		if f.Bitrate > best.Bitrate ||
			(f.Bitrate == best.Bitrate && f.Filesize > best.Filesize) {
			best = f
		}
	}
	return best, nil
}

// Choose runs the full selection policy for one video.
// A resolution cap takes precedence; skip selects the defaults; otherwise the
// prompter is consulted with the defaults preselected.
func Choose(formats []model.StreamFormat, maxHeight int, skip bool, prompter ChoicePrompter) (model.Selection, error) {
	video, audio, err := Partition(formats)
	if err != nil {
		return model.Selection{}, err
	}

	if maxHeight > 0 {
		v, err := SelectCapped(video, maxHeight)
		if err != nil {
			return model.Selection{}, err
		}
		return model.Selection{Video: v, Audio: audio[0]}, nil
	}

	if skip || prompter == nil {
		return Default(video, audio), nil
	}

	vidx, err := prompter.Choose("video format", VideoLabels(video), len(video)-1)
	if err != nil {
		return model.Selection{}, err
	}
	aidx, err := prompter.Choose("audio format", AudioLabels(audio), 0)
	if err != nil {
		return model.Selection{}, err
	}
	return model.Selection{Video: video[vidx], Audio: audio[aidx]}, nil
}
