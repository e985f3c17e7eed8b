package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/shelfcovers/internal/book"
	"github.com/lepinkainen/shelfcovers/internal/downloader"
)

// drive runs the model the way a program would, without a terminal
func drive(m tea.Model, extra ...tea.Msg) tea.Model {
	queue := []tea.Cmd{m.Init()}
	for _, msg := range extra {
		msg := msg
		queue = append(queue, func() tea.Msg { return msg })
	}

	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		switch msg := msg.(type) {
		case tea.QuitMsg:
			return m
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		}
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, next)
	}
	return m
}

func stubRunProgram(t *testing.T, extra ...tea.Msg) {
	t.Helper()
	orig := runProgram
	runProgram = func(m tea.Model) (tea.Model, error) {
		return drive(m, extra...), nil
	}
	t.Cleanup(func() { runProgram = orig })
}

func eventsOf(evs ...downloader.Event) <-chan downloader.Event {
	ch := make(chan downloader.Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	return ch
}

func testEvent(idx int, title string, outcome downloader.Outcome) downloader.Event {
	return downloader.Event{
		Index:    idx,
		Total:    3,
		Record:   book.NewRecord(idx+1, title, "", "", "", "https://img.example/x.jpg"),
		Outcome:  outcome,
		Filename: title + ".jpg",
	}
}

func TestRunProgress_CountsOutcomes(t *testing.T) {
	stubRunProgram(t)

	events := eventsOf(
		testEvent(0, "Dune", downloader.OutcomeDownloaded),
		testEvent(1, "Emma", downloader.OutcomeSkipped),
		testEvent(2, "Ulysses", downloader.OutcomeFailed),
	)

	result, err := RunProgress(events, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, ProgressResult{Downloaded: 1, Skipped: 1, Failed: 1}, result)
}

func TestRunProgress_QuitCancels(t *testing.T) {
	stubRunProgram(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	events := make(chan downloader.Event, 1)
	events <- testEvent(0, "Dune", downloader.OutcomeDownloaded)
	close(events)

	cancelled := false
	result, err := RunProgress(events, 3, func() { cancelled = true })
	require.NoError(t, err)
	assert.True(t, result.Stopped)
	assert.True(t, cancelled)
}

func TestRunProgress_ProgramError(t *testing.T) {
	orig := runProgram
	runProgram = func(tea.Model) (tea.Model, error) { return nil, errors.New("no tty") }
	t.Cleanup(func() { runProgram = orig })

	_, err := RunProgress(eventsOf(), 0, nil)
	require.Error(t, err)
}

func TestProgressModel_View(t *testing.T) {
	m := newProgressModel(nil, 3, nil)

	ev := testEvent(0, "Dune", downloader.OutcomeFailed)
	ev.Err = errors.New("HTTP 404")
	m.Update(eventMsg(ev))
	m.Update(eventMsg(testEvent(1, "Emma", downloader.OutcomeDownloaded)))

	view := m.View()
	assert.Contains(t, view, "Downloading covers 2/3")
	assert.Contains(t, view, "1 downloaded")
	assert.Contains(t, view, "1 failed")
	assert.Contains(t, view, "Dune")
	assert.Contains(t, view, "404")
	assert.InDelta(t, 2.0/3.0, m.percent(), 0.001)

	// newest event is listed first
	assert.Less(t, strings.Index(view, "Emma"), strings.Index(view, "Dune"))
}

func TestProgressModel_WindowResize(t *testing.T) {
	m := newProgressModel(nil, 0, nil)
	m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})

	assert.Equal(t, 46, m.list.Width())
	assert.Equal(t, 46, m.bar.Width)
	assert.Zero(t, m.percent())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "日本語...", truncate("日本語のタイトル", 6))
	assert.Equal(t, "anything", truncate("anything", 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 72, clamp(72, 0, 40))
	assert.Equal(t, 50, clamp(72, 50, 40))
	assert.Equal(t, 40, clamp(72, 10, 40))
}
