package probe

import (
	"strconv"
	"strings"
	"time"

	"ytmux/internal/progress"
)

// ParseProgress parses extractor progress output lines such as
// "[download]  45.2% of 10.00MiB at  1.50MiB/s ETA 00:04".
// Returns a progress.Update and ok=true when the line carries progress.
func ParseProgress(line, jobID string, stage progress.Stage) (u progress.Update, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[download]") {
		return progress.Update{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, "[download]"))

	percent := -1.0
	if idx := strings.Index(rest, "%"); idx != -1 {
		if p, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64); err == nil {
			percent = p
		}
	}

	var speed *string
	if idx := strings.Index(rest, " at "); idx != -1 {
		speedPart := rest[idx+4:]
		if idx2 := strings.Index(speedPart, " "); idx2 != -1 {
			s := strings.TrimSpace(speedPart[:idx2])
			speed = &s
		}
	}

	var eta *time.Duration
	if idx := strings.Index(rest, "ETA "); idx != -1 {
		etaStr := strings.TrimSpace(rest[idx+4:])
		if idx2 := strings.Index(etaStr, " "); idx2 != -1 {
			etaStr = etaStr[:idx2]
		}
		if d, err := parseETA(etaStr); err == nil {
			eta = &d
		}
	}

	msg := "Downloading video"
	if stage == progress.StageAudio {
		msg = "Downloading audio"
	}
	return progress.Update{
		JobID:   jobID,
		Stage:   stage,
		Percent: percent,
		Speed:   speed,
		ETA:     eta,
		Message: msg,
	}, true
}

// parseETA parses duration strings like "00:04" or "01:23:45".
func parseETA(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		m, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return 0, errJoin(err1, err2)
		}
		return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
	case 3:
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, errJoin(err1, err2, err3)
		}
		return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
	default:
		sec, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		return time.Duration(sec) * time.Second, nil
	}
}

func errJoin(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
