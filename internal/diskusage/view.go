package diskusage

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/macmole/internal/format"
	"github.com/lakshaymaurya-felt/macmole/internal/ui"
)

// Short aliases for readability in render functions.
var (
	clrDim    = ui.ColorMuted
	clrDir    = ui.ColorAccent
	clrFile   = ui.ColorText
	clrOld    = ui.ColorMuted
	clrLarge  = ui.ColorWarning
	clrCursor = ui.ColorPrimary
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	if m.quitting {
		return ""
	}
	w := m.width
	if w < 40 {
		w = 40
	}

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")

	if m.searching {
		s.WriteString(m.renderSearchInput())
		s.WriteString("\n")
		s.WriteString(m.renderSearchResults(w))
	} else {
		s.WriteString(m.renderBody(w))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorAccent).
		Render("  " + ui.IconDiamond + " Disk Usage")

	pathLine := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render(fmt.Sprintf("  %s    %s", m.current.Path, format.Size(m.current.Size)))

	var crumbs []string
	for _, bc := range m.breadcrumb {
		crumbs = append(crumbs, bc.Name)
	}
	crumbs = append(crumbs, m.current.Name)
	bcStr := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Render("  " + strings.Join(crumbs, " "+ui.IconChevron+" "))

	inner := lipgloss.JoinVertical(lipgloss.Left, title, pathLine, bcStr)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorAccent).
		Width(w - 2).
		Render(inner)
}

// ─── Body (entry list) ───────────────────────────────────────────────────────

func (m Model) renderBody(w int) string {
	items := m.visibleItems()
	if len(items) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  (empty directory)")
	}

	vh := m.viewportHeight()
	barWidth := 20
	if w > 110 {
		barWidth = 30
	} else if w > 90 {
		barWidth = 25
	}

	parentSize := m.current.Size
	var lines []string

	for i := m.offset; i < len(items) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderEntry(i+1, items[i], parentSize, barWidth, i == m.cursor))
	}

	if len(items) > vh {
		pct := float64(m.offset) / float64(len(items)-vh) * 100
		shown := m.offset + vh
		if shown > len(items) {
			shown = len(items)
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  ── %d/%d items  (%.0f%%) ──", shown, len(items), pct)))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(num int, node *Node, parentSize int64, barWidth int, selected bool) string {
	pct := node.Percentage(parentSize)
	bar := ui.GradientBar(pct, barWidth)

	icon := ui.IconBullet + " "
	if node.IsDir {
		icon = ui.IconFolder
	}

	nameColor := clrFile
	switch {
	case node.Synthetic:
		nameColor = clrDim
	case node.IsDir:
		nameColor = clrDir
	}
	if node.IsOld() {
		nameColor = clrOld
	}
	if !node.IsDir && node.Size >= 100*(1<<20) {
		nameColor = clrLarge
	}

	maxName := m.width - barWidth - 38
	if maxName < 12 {
		maxName = 12
	}
	name := format.Truncate(node.Name, maxName)
	nameStr := lipgloss.NewStyle().Foreground(nameColor).Bold(node.IsDir).Render(name)

	numStr := lipgloss.NewStyle().Foreground(clrDim).Render(fmt.Sprintf("%3d.", num))
	pctStr := lipgloss.NewStyle().Foreground(clrDim).Render(fmt.Sprintf("%5.1f%%", pct))
	sizeStr := format.Size(node.Size)

	age := "     "
	if node.IsOld() {
		age = ui.TagWarningStyle().Render(" >6mo ")
	}

	line := fmt.Sprintf("  %s %s  %s  %s %s  %s  %s",
		numStr, bar, pctStr, icon, nameStr, sizeStr, age)

	if selected {
		cursor := lipgloss.NewStyle().Foreground(clrCursor).Bold(true).Render(ui.IconBlock)
		line = " " + cursor + line[2:]
	}

	return line
}

// ─── Search UI ───────────────────────────────────────────────────────────────

func (m Model) renderSearchInput() string {
	prompt := lipgloss.NewStyle().
		Foreground(ui.ColorAccent).
		Bold(true).
		Render("  / ")

	query := lipgloss.NewStyle().
		Foreground(ui.ColorText).
		Render(m.searchQuery)

	cursor := lipgloss.NewStyle().
		Foreground(ui.ColorAccent).
		Render("▎")

	return prompt + query + cursor
}

func (m Model) renderSearchResults(w int) string {
	if m.searchQuery == "" {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  Type to search across all files and directories…")
	}

	if len(m.searchResults) == 0 {
		return lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render("  No matches found")
	}

	vh := m.viewportHeight()
	searchOffset := 0
	if m.searchCursor >= vh {
		searchOffset = m.searchCursor - vh + 1
	}

	var lines []string
	for i := searchOffset; i < len(m.searchResults) && i < searchOffset+vh; i++ {
		node := m.searchResults[i]

		icon := ui.IconBullet + " "
		if node.IsDir {
			icon = ui.IconFolder
		}

		nameColor := clrFile
		if node.IsDir {
			nameColor = clrDir
		}

		// Parent path for context, rune-safe truncation from the left.
		parentPath := ""
		if node.Parent != nil {
			parentPath = node.Parent.Path
			maxPathLen := w - 50
			if maxPathLen < 20 {
				maxPathLen = 20
			}
			if runeCount := utf8.RuneCountInString(parentPath); runeCount > maxPathLen {
				runes := []rune(parentPath)
				parentPath = "…" + string(runes[runeCount-maxPathLen+1:])
			}
		}

		name := lipgloss.NewStyle().Foreground(nameColor).Bold(node.IsDir).Render(node.Name)
		path := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(parentPath)

		line := fmt.Sprintf("  %s %s  %s  %s", icon, name, format.Size(node.Size), path)
		if i == m.searchCursor {
			cursor := lipgloss.NewStyle().Foreground(clrCursor).Bold(true).Render(ui.IconBlock)
			line = " " + cursor + line[2:]
		}
		lines = append(lines, line)
	}

	lines = append(lines, lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Italic(true).
		Render(fmt.Sprintf("  ── %d result(s) ──", len(m.searchResults))))

	return strings.Join(lines, "\n")
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	var parts []string

	if m.searching {
		hints := []string{"↑↓ navigate", "Enter select", "Esc cancel"}
		parts = append(parts, ui.HintBarStyle().Render("  "+strings.Join(hints, " "+ui.IconPipe+" ")))
		return strings.Join(parts, "\n")
	}

	if m.largeOnly {
		parts = append(parts, "  "+ui.TagWarningStyle().Render(" >100 MiB filter "))
	}

	hints := []string{
		"↑↓ nav",
		"→ drill",
		"← back",
		"/ search",
		"L large",
		"q quit",
	}
	parts = append(parts, ui.HintBarStyle().Render("  "+strings.Join(hints, " "+ui.IconPipe+" ")))

	return strings.Join(parts, "\n")
}
