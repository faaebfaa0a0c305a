package diskusage

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// scanDoneMsg carries the finished tree (or the error) into the model.
type scanDoneMsg struct {
	root *Node
	err  error
}

type countTickMsg struct{}

// ProgressModel shows a spinner with a live entry count while the analyzer
// runs, then hands off to the interactive browser.
type ProgressModel struct {
	analyzer *Analyzer
	path     string
	spin     spinner.Model
	cancel   context.CancelFunc

	browser *Model
	err     error
	done    bool

	width  int
	height int
}

// NewProgressModel wraps an analyzer run in a progress view.
func NewProgressModel(analyzer *Analyzer, path string) *ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ColorAccent)
	return &ProgressModel{analyzer: analyzer, path: path, spin: s}
}

// Err returns the scan error, if any, after the program finishes.
func (m *ProgressModel) Err() error { return m.err }

func (m *ProgressModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	scanCmd := func() tea.Msg {
		root, err := m.analyzer.Scan(ctx, m.path)
		return scanDoneMsg{root: root, err: err}
	}
	return tea.Batch(m.spin.Tick, scanCmd, countTick())
}

func countTick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return countTickMsg{}
	})
}

func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Once the scan is done, the browser owns all input.
	if m.browser != nil {
		next, cmd := m.browser.Update(msg)
		if b, ok := next.(Model); ok {
			m.browser = &b
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case scanDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		browser := NewModel(msg.root)
		if m.width > 0 {
			browser.width = m.width
			browser.height = m.height
		}
		m.browser = &browser
		return m, nil

	case countTickMsg:
		return m, countTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			m.done = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// Remember the size for the browser handoff.
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *ProgressModel) View() string {
	if m.done {
		return ""
	}
	if m.browser != nil {
		return m.browser.View()
	}
	return fmt.Sprintf("\n  %s Scanning %s... %d entries\n\n  %s\n",
		m.spin.View(), m.path, m.analyzer.ScannedCount(),
		ui.HintBarStyle().Render("q cancel"))
}
