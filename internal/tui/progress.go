// Package tui provides interactive terminal UI components.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/shelfcovers/internal/downloader"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 12
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

type eventMsg downloader.Event

type doneMsg struct{}

// ProgressResult reports how the progress view ended.
type ProgressResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Stopped    bool
}

type eventItem struct {
	downloader.Event
}

func (i eventItem) Title() string {
	return i.Record.Title
}

func (i eventItem) FilterValue() string {
	return i.Record.Title
}

func (i eventItem) Description() string {
	if i.Err != nil {
		return i.Err.Error()
	}
	return i.Filename
}

type eventDelegate struct {
	styles map[downloader.Outcome]lipgloss.Style
}

func newEventDelegate() eventDelegate {
	return eventDelegate{styles: map[downloader.Outcome]lipgloss.Style{
		downloader.OutcomeDownloaded: downloadedStyle,
		downloader.OutcomeSkipped:    skippedStyle,
		downloader.OutcomeFailed:     failedStyle,
	}}
}

func (d eventDelegate) Height() int                         { return 1 }
func (d eventDelegate) Spacing() int                        { return 0 }
func (d eventDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d eventDelegate) Render(w io.Writer, m list.Model, _ int, item list.Item) {
	ev, ok := item.(eventItem)
	if !ok {
		return
	}

	label := d.styles[ev.Outcome].Render(fmt.Sprintf("%-10s", ev.Outcome))
	// label and counter take about 20 columns
	room := m.Width() - 20
	line := fmt.Sprintf("%s %3d/%-3d %s", label, ev.Index+1, ev.Total, truncate(ev.Title(), room/2))
	if desc := ev.Description(); desc != "" {
		line += " " + detailStyle.Render(truncate(desc, room/2))
	}
	_, _ = fmt.Fprint(w, line)
}

type progressModel struct {
	list   list.Model
	bar    progress.Model
	events <-chan downloader.Event
	cancel context.CancelFunc

	total     int
	processed int
	result    ProgressResult
}

func newProgressModel(events <-chan downloader.Event, total int, cancel context.CancelFunc) *progressModel {
	l := list.New(nil, newEventDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &progressModel{
		list:   l,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultListWidth)),
		events: events,
		cancel: cancel,
		total:  total,
	}
}

func waitForEvent(events <-chan downloader.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		ev := downloader.Event(msg)
		m.processed++
		if ev.Total > 0 {
			m.total = ev.Total
		}
		switch ev.Outcome {
		case downloader.OutcomeDownloaded:
			m.result.Downloaded++
		case downloader.OutcomeSkipped:
			m.result.Skipped++
		case downloader.OutcomeFailed:
			m.result.Failed++
		}
		// newest first
		cmd := m.list.InsertItem(0, eventItem{Event: ev})
		return m, tea.Batch(cmd, waitForEvent(m.events))
	case doneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.result.Stopped = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-8, 3)
		m.list.SetSize(width, height)
		m.bar.Width = width
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *progressModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.processed) / float64(m.total)
}

func (m *progressModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("Downloading covers %d/%d", m.processed, m.total))
	counts := fmt.Sprintf("%s  %s  %s",
		downloadedStyle.Render(fmt.Sprintf("%d downloaded", m.result.Downloaded)),
		skippedStyle.Render(fmt.Sprintf("%d skipped", m.result.Skipped)),
		failedStyle.Render(fmt.Sprintf("%d failed", m.result.Failed)),
	)
	help := helpStyle.Render("q stop")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.bar.ViewAs(m.percent()), counts, "", m.list.View(), help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	downloadedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skippedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("161")).Bold(true)
	detailStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// RunProgress shows a progress view fed by events until the channel is closed or the
// user quits. Quitting calls cancel so the batch stops before its next item.
func RunProgress(events <-chan downloader.Event, total int, cancel context.CancelFunc) (ProgressResult, error) {
	m := newProgressModel(events, total, cancel)
	finalModel, err := runProgram(m)
	if err != nil {
		return ProgressResult{}, err
	}

	if typed, ok := finalModel.(*progressModel); ok {
		return typed.result, nil
	}

	return ProgressResult{}, fmt.Errorf("unexpected program result")
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
