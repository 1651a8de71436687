package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ytmux/internal/model"
)

// Run launches the TUI over the resolved candidates and blocks until every
// job finishes or the user quits. A non-nil error summarizes failed jobs.
func Run(ctx context.Context, candidates []model.Candidate, opts model.CLIOptions, dlPath, ffmpegPath, workDir string, log *slog.Logger) error {
	m := NewModel(ctx, candidates, opts, dlPath, ffmpegPath, workDir, log)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		var failed []string
		for _, id := range fm.jobOrder {
			js := fm.jobs[id]
			if js != nil && js.err != nil {
				failed = append(failed, fmt.Sprintf("- %s: %s", js.label, js.err.Error()))
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d job(s) failed:\n%s", len(failed), strings.Join(failed, "\n"))
		}
	}
	return nil
}
