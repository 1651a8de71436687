package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"ytmux/internal/progress"
)

type jobState struct {
	id     string
	label  string // video ID plus title when known
	stage  progress.Stage
	status string
	err    error
	done   bool

	outputPath string
	bytes      int64
	percent    float64 // -1 means unknown

	spinner  spinner.Model
	bar      bubblesprogress.Model
	logsRing []string

	started bool
}

func newJobState(id, label string, styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		id:      id,
		label:   label,
		stage:   progress.StageMetadata,
		status:  "Queued",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}
