package diskusage

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// searchTickMsg is sent after a debounce delay to trigger the actual search.
type searchTickMsg struct {
	query string
}

// searchDebounce is the delay before re-running the search after a keystroke.
const searchDebounce = 150 * time.Millisecond

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea model for the interactive usage browser. The
// browser is read-only: it navigates the measured tree but never touches
// the filesystem.
type Model struct {
	root       *Node
	current    *Node
	cursor     int
	breadcrumb []*Node
	width      int
	height     int
	offset     int
	largeOnly  bool // filter: show only entries >= 100 MiB
	quitting   bool

	searching     bool
	searchQuery   string
	searchResults []*Node
	searchCursor  int
}

// NewModel creates a browser rooted at the given scan result.
func NewModel(root *Node) Model {
	return Model{
		root:    root,
		current: root,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.ensureVisible()
			}

		case "down", "j":
			if m.cursor < len(m.visibleItems())-1 {
				m.cursor++
				m.ensureVisible()
			}

		case "right", "l", "enter":
			items := m.visibleItems()
			if m.cursor >= 0 && m.cursor < len(items) {
				node := items[m.cursor]
				if node.IsDir && len(node.Children) > 0 {
					m.breadcrumb = append(m.breadcrumb, m.current)
					m.current = node
					m.cursor = 0
					m.offset = 0
				}
			}

		case "left", "h":
			if len(m.breadcrumb) > 0 {
				m.current = m.breadcrumb[len(m.breadcrumb)-1]
				m.breadcrumb = m.breadcrumb[:len(m.breadcrumb)-1]
				m.cursor = 0
				m.offset = 0
			}

		case "L":
			m.largeOnly = !m.largeOnly
			m.cursor = 0
			m.offset = 0

		case "/":
			m.searching = true
			m.searchQuery = ""
			m.searchResults = nil
			m.searchCursor = 0
		}
		return m, nil

	case searchTickMsg:
		// Only run if the query hasn't changed since the tick was scheduled.
		if m.searching && msg.query == m.searchQuery {
			m.searchResults = searchTree(m.root, m.searchQuery, 50)
			if m.searchCursor >= len(m.searchResults) {
				m.searchCursor = 0
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.searching = false
		m.searchQuery = ""
		m.searchResults = nil
		m.searchCursor = 0
		return m, nil

	case tea.KeyEnter:
		if m.searchCursor >= 0 && m.searchCursor < len(m.searchResults) {
			m.navigateTo(m.searchResults[m.searchCursor])
			m.searching = false
			m.searchQuery = ""
			m.searchResults = nil
			m.searchCursor = 0
		}
		return m, nil

	case tea.KeyUp:
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
			m.searchCursor = 0
			return m, m.searchTick()
		}
		return m, nil

	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
		m.searchCursor = 0
		return m, m.searchTick()
	}
	return m, nil
}

func (m Model) searchTick() tea.Cmd {
	query := m.searchQuery
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{query: query}
	})
}

// View delegates to view.go.
func (m Model) View() string {
	return m.renderView()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

func (m *Model) viewportHeight() int {
	h := m.height - 8 // header (4) + footer (3) + padding
	if h < 1 {
		h = 1
	}
	return h
}

// visibleItems returns the current directory's children, optionally
// filtered to entries >= 100 MiB.
func (m Model) visibleItems() []*Node {
	if m.current == nil {
		return nil
	}
	var out []*Node
	for _, c := range m.current.Children {
		if m.largeOnly && c.Size < 100*1024*1024 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// navigateTo builds the breadcrumb trail to a search result's parent and
// puts the cursor on the result.
func (m *Model) navigateTo(node *Node) {
	var trail []*Node
	for cur := node.Parent; cur != nil && cur != m.root; cur = cur.Parent {
		trail = append([]*Node{cur}, trail...)
	}
	m.breadcrumb = trail
	if node.Parent != nil {
		m.current = node.Parent
	} else {
		m.current = m.root
	}

	m.cursor = 0
	for i, child := range m.current.Children {
		if child == node {
			m.cursor = i
			break
		}
	}
	m.offset = 0
	m.ensureVisible()
}

// searchTree finds up to limit nodes whose name contains the query,
// case-insensitively, largest first. Synthetic fold nodes are skipped.
func searchTree(root *Node, query string, limit int) []*Node {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)

	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Synthetic {
			return
		}
		if n != root && strings.Contains(strings.ToLower(n.Name), needle) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
