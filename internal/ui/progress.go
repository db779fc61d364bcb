package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"loopkern/internal/driver"
)

const statusWidth = 12

// share of a file's work done once it enters a stage
var stageWeight = map[driver.Stage]float64{
	driver.StageLoad:     0.05,
	driver.StageParse:    0.2,
	driver.StageSema:     0.4,
	driver.StageAnalyze:  0.6,
	driver.StageGenerate: 0.85,
}

var stageNames = map[driver.Stage]string{
	driver.StageLoad:     "loading",
	driver.StageParse:    "parsing",
	driver.StageSema:     "checking",
	driver.StageAnalyze:  "analyzing",
	driver.StageGenerate: "generating",
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleWorking = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleCounts  = lipgloss.NewStyle().Faint(true)
)

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	files    []fileRow
	byPath   map[string]int
	runStage string
	width    int
	done     bool
}

type fileRow struct {
	path    string
	status  string
	stage   driver.Stage
	final   bool
	loops   int
	kernels int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel renders per-file progress of a directory analysis and
// quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleWorking

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   make([]fileRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.files[i] = fileRow{path: f, status: string(driver.StatusQueued)}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.waitEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.header()))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, row := range m.files {
		status := statusStyle(row).Render(fmt.Sprintf("%*s", statusWidth, row.status))
		fmt.Fprintf(&b, "  %s %s", status, truncate(row.path, nameWidth))
		if row.final && row.status != string(driver.StatusError) {
			b.WriteString(styleCounts.Render(fmt.Sprintf("  %d loops, %d kernels", row.loops, row.kernels)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// header reads "<spinner> analyze (stage) 2/5 files, 3 kernels".
func (m *progressModel) header() string {
	finished, kernels := 0, 0
	for _, row := range m.files {
		if row.final {
			finished++
			kernels += row.kernels
		}
	}
	h := m.title
	if m.runStage != "" {
		h += " (" + m.runStage + ")"
	}
	h += fmt.Sprintf(" %d/%d files, %d kernels", finished, len(m.files), kernels)
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if label == "" {
		return nil
	}
	if ev.File == "" {
		m.runStage = label
		return nil
	}
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.files[idx]
	row.status = label
	row.stage = ev.Stage
	switch ev.Status {
	case driver.StatusDone, driver.StatusCached, driver.StatusError:
		row.final = true
		row.loops, row.kernels = ev.Loops, ev.Kernels
	}
	return m.bar.SetPercent(m.percent())
}

// percent weights unfinished files by how far their pipeline got.
func (m *progressModel) percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.files {
		if row.final {
			total++
		} else {
			total += stageWeight[row.stage]
		}
	}
	return total / float64(len(m.files))
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	if status == driver.StatusWorking {
		return stageNames[stage]
	}
	return string(status)
}

func statusStyle(row fileRow) lipgloss.Style {
	switch {
	case row.status == string(driver.StatusError):
		return styleFailed
	case row.final:
		return styleOK
	case row.stage != "":
		return styleWorking
	}
	return styleIdle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
