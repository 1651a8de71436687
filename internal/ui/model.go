package ui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ytmux/internal/model"
	"ytmux/internal/pipeline"
	"ytmux/internal/progress"
	"ytmux/internal/selector"
	"ytmux/internal/util/format"
)

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	dlPath     string
	ffmpegPath string
	workDir    string
	log        *slog.Logger

	// Jobs
	candidates []model.Candidate
	opts       model.CLIOptions
	jobOrder   []string
	jobs       map[string]*jobState
	workers    int
	running    int
	next       int // next index in candidates to start

	// UI
	width, height int
	styles        Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, candidates []model.Candidate, opts model.CLIOptions, dlPath, ffmpegPath, workDir string, log *slog.Logger) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	jobs := make(map[string]*jobState, len(candidates))
	order := make([]string, 0, len(candidates))
	for i, cand := range candidates {
		id := "job-" + strconv.Itoa(i)
		label := cand.ID
		if cand.Title != "" {
			label = cand.Title
		}
		js := newJobState(id, label, sty)
		jobs[id] = &js
		order = append(order, id)
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = 1
	}

	return Model{
		ctx:        c,
		cancel:     cancel,
		dlPath:     dlPath,
		ffmpegPath: ffmpegPath,
		workDir:    workDir,
		log:        log,
		candidates: candidates,
		opts:       opts,
		jobs:       jobs,
		jobOrder:   order,
		workers:    workers,
		styles:     sty,
		eventCh:    make(chan tea.Msg, 256),
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		sp := m.jobs[id].spinner
		cmds = append(cmds, sp.Tick)
	}
	// Listen for reporter events, then kick off the first workers
	cmds = append(cmds, m.listenEventsCmd())
	cmds = append(cmds, func() tea.Msg { return startMsg{} })
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case startMsg:
		cmd := m.startWorkers()
		return m, cmd

	case jobUpdateMsg:
		u := msg.U
		if js, ok := m.jobs[u.JobID]; ok {
			js.stage = u.Stage
			js.percent = u.Percent
			js.status = u.Message
			if u.Bytes != nil {
				js.bytes = *u.Bytes
			}
		}
	case jobLogMsg:
		l := msg.L
		if js, ok := m.jobs[l.JobID]; ok {
			// small ring buffer
			line := strings.TrimRight(l.Line, "\r\n")
			if len(js.logsRing) > 1000 {
				js.logsRing = js.logsRing[1:]
			}
			js.logsRing = append(js.logsRing, line)
		}
	case jobResultMsg:
		r := msg.R
		if js, ok := m.jobs[r.JobID]; ok {
			js.done = true
			js.err = r.Err
			if r.Err == nil {
				js.stage = progress.StageCompleted
				js.percent = 100
				js.outputPath = r.OutputPath
				js.bytes = r.Bytes
				if r.OutputPath != "" {
					js.status = fmt.Sprintf("Saved: %s (%s)",
						filepath.Base(r.OutputPath), format.HumanizeBytes(r.Bytes))
				} else {
					js.status = "Completed"
				}
			} else {
				js.stage = progress.StageError
				js.status = r.Err.Error()
				js.percent = -1
			}
			m.running--
			// Start next job if any remain
			cmd := m.startWorkers()
			return m, tea.Batch(cmd, m.listenEventsCmd())
		}
	case allDoneMsg:
		return m, tea.Quit
	}

	// Update per-job components (spinner)
	var cmds []tea.Cmd
	for _, id := range m.jobOrder {
		js := m.jobs[id]
		var c tea.Cmd
		js.spinner, c = js.spinner.Update(msg)
		if c != nil {
			cmds = append(cmds, c)
		}
	}
	// Keep listening for events
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	summary := m.viewSummary()
	if summary != "" {
		return m.viewHeader() + "\n\n" + m.viewJobs() + "\n" + summary
	}
	return m.viewHeader() + "\n\n" + m.viewJobs()
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

// startWorkers launches queued jobs up to the worker limit. It mutates the
// receiver, so callers in Update must return the modified model.
func (m *Model) startWorkers() tea.Cmd {
	select {
	case <-m.ctx.Done():
		return tea.Quit
	default:
	}
	for m.running < m.workers && m.next < len(m.candidates) {
		idx := m.next
		m.next++
		m.running++
		jobID := m.jobOrder[idx]
		cand := m.candidates[idx]
		if js := m.jobs[jobID]; js != nil {
			js.started = true
			js.status = "Queued"
			js.stage = progress.StageMetadata
		}
		go m.runJob(jobID, cand)
	}
	if m.next >= len(m.candidates) && m.running == 0 {
		return func() tea.Msg { return allDoneMsg{} }
	}
	return nil
}

func (m Model) runJob(jobID string, cand model.Candidate) {
	rep := teaReporter{ch: m.eventCh}

	svc := pipeline.NewService(
		pipeline.WithDownloaderPath(m.dlPath),
		pipeline.WithFFmpegPath(m.ffmpegPath),
		pipeline.WithWorkDir(m.workDir),
		pipeline.WithCLIOptions(m.opts),
		pipeline.WithReporter(rep),
		pipeline.WithPrompter(selector.AutoPrompter{}),
		pipeline.WithLogger(m.log),
		pipeline.WithJobID(jobID),
	)

	res, err := svc.RunVideo(m.ctx, cand)
	if err != nil {
		rep.Result(progress.Result{JobID: jobID, Err: fmt.Errorf("%s: %w", cand.ID, err)})
		return
	}
	rep.Result(progress.Result{
		JobID:      jobID,
		OutputPath: res.Output.OutputPath,
		Bytes:      res.Output.Bytes,
	})
}

type teaReporter struct {
	ch chan tea.Msg
}

func (r teaReporter) Update(u progress.Update) {
	// Block on completion messages to ensure they're delivered
	if u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.ch <- jobUpdateMsg{U: u}
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	// Always block on Result messages - they're critical
	r.ch <- jobResultMsg{R: res}
}
