package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"iconforge/internal/app"
	"iconforge/internal/iconset"
	"iconforge/internal/logging"
	"iconforge/internal/runctx"
	"iconforge/internal/runstatus"
)

const logTailLines = 6

type targetState struct {
	target iconset.Target
	done   bool
	failed bool
}

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type (
	planMsg   []iconset.Target
	resultMsg app.TargetResult
	statusMsg string
	logMsg    string
	exitMsg   struct{ err error }
)

type progressModel struct {
	ctx      context.Context
	logger   *logging.Logger
	version  string
	watch    bool
	spin     spinner.Model
	status   string
	targets  []targetState
	index    map[string]int
	logTail  []string
	runErr   error
	finished bool
	quitting bool

	planCh   chan []iconset.Target
	resultCh chan app.TargetResult
	statusCh chan string
	logCh    chan string
	exitCh   chan error

	stop func()
}

func newModel(ctx context.Context, logger *logging.Logger, version string, watch bool, channels modelChannels, stop func()) *progressModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = titleStyle
	return &progressModel{
		ctx:      ctx,
		logger:   logger,
		version:  version,
		watch:    watch,
		spin:     spin,
		status:   runstatus.Planning,
		index:    map[string]int{},
		planCh:   channels.planCh,
		resultCh: channels.resultCh,
		statusCh: channels.statusCh,
		logCh:    channels.logCh,
		exitCh:   channels.exitCh,
		stop:     stop,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.waitForPlan(),
		m.waitForResult(),
		m.waitForStatus(),
		m.waitForLog(),
		m.waitForExit(),
	)
}

func (m *progressModel) waitForPlan() tea.Cmd {
	return func() tea.Msg {
		plan, ok := runctx.RecvOrDone(m.ctx, "plan feed", m.logger, m.planCh)
		if !ok {
			return nil
		}
		return planMsg(plan)
	}
}

func (m *progressModel) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := runctx.RecvOrDone(m.ctx, "result feed", m.logger, m.resultCh)
		if !ok {
			return nil
		}
		return resultMsg(result)
	}
}

func (m *progressModel) waitForStatus() tea.Cmd {
	return func() tea.Msg {
		status, ok := runctx.RecvOrDone(m.ctx, "status feed", m.logger, m.statusCh)
		if !ok {
			return nil
		}
		return statusMsg(status)
	}
}

func (m *progressModel) waitForLog() tea.Cmd {
	return func() tea.Msg {
		line, ok := runctx.RecvOrDone(m.ctx, "log feed", m.logger, m.logCh)
		if !ok {
			return nil
		}
		return logMsg(line)
	}
}

func (m *progressModel) waitForExit() tea.Cmd {
	return func() tea.Msg {
		err, ok := runctx.RecvOrDone(m.ctx, "exit feed", m.logger, m.exitCh)
		if !ok {
			return nil
		}
		return exitMsg{err: err}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			if m.stop != nil {
				m.stop()
			}
			return m, tea.Quit
		}
		return m, nil
	case planMsg:
		m.applyPlan(msg)
		return m, m.waitForPlan()
	case resultMsg:
		m.applyResult(app.TargetResult(msg))
		return m, m.waitForResult()
	case statusMsg:
		m.status = string(msg)
		return m, m.waitForStatus()
	case logMsg:
		m.appendLog(string(msg))
		return m, m.waitForLog()
	case exitMsg:
		m.finished = true
		m.runErr = msg.err
		if m.watch && msg.err == nil && !m.quitting {
			// watch loop only exits on cancellation; fall through to quit
			return m, tea.Quit
		}
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *progressModel) applyPlan(plan []iconset.Target) {
	// A watch-mode regeneration replans with the same targets; reset the
	// per-target completion marks instead of appending duplicates.
	m.targets = m.targets[:0]
	m.index = map[string]int{}
	for _, target := range plan {
		m.index[target.RelPath] = len(m.targets)
		m.targets = append(m.targets, targetState{target: target})
	}
}

func (m *progressModel) applyResult(result app.TargetResult) {
	idx, ok := m.index[result.Target.RelPath]
	if !ok {
		return
	}
	m.targets[idx].done = true
	m.targets[idx].failed = result.Err != nil
}

func (m *progressModel) appendLog(line string) {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return
	}
	m.logTail = append(m.logTail, line)
	if len(m.logTail) > logTailLines {
		m.logTail = m.logTail[len(m.logTail)-logTailLines:]
	}
}

func (m *progressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("iconforge "+m.version) + "\n")

	switch {
	case m.finished && m.runErr != nil:
		b.WriteString(failStyle.Render("✗ "+m.runErr.Error()) + "\n")
	case m.finished || runstatus.Key(m.status) == runstatus.Key(runstatus.Complete):
		b.WriteString(doneStyle.Render("✓ "+runstatus.Complete) + "\n")
	default:
		b.WriteString(m.spin.View() + statusStyle.Render(m.status) + "\n")
	}

	for _, state := range m.targets {
		b.WriteString(m.renderTarget(state) + "\n")
	}

	if len(m.logTail) > 0 {
		b.WriteString(logStyle.Render(strings.Join(m.logTail, "\n")) + "\n")
	}
	if !m.finished {
		b.WriteString(helpStyle.Render(keys.Quit.Help().Key + " " + keys.Quit.Help().Desc))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *progressModel) renderTarget(state targetState) string {
	label := fmt.Sprintf("%s/%s", state.target.Platform, state.target.Name)
	size := sizeStyle.Render(fmt.Sprintf("%dpx", state.target.Size))
	switch {
	case state.failed:
		return "  " + failStyle.Render("✗ "+label) + " " + size
	case state.done:
		return "  " + doneStyle.Render("✓ "+label) + " " + size
	default:
		return "  " + pendingStyle.Render("• "+label) + " " + size
	}
}
