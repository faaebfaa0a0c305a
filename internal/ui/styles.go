package ui

import "github.com/charmbracelet/lipgloss"

// Icons shared across the interactive views.
const (
	IconFolder  = "▸ "
	IconBullet  = "·"
	IconBlock   = "▌"
	IconChevron = "›"
	IconPipe    = "│"
	IconDiamond = "◆"
	IconWarning = "!"
	IconError   = "✗"
	IconCheck   = "✓"
)

// HintBarStyle renders the keybinding hint line at the bottom of a view.
func HintBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorMuted)
}

// TagWarningStyle renders a small inverse warning tag.
func TagWarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#1f2937"}).
		Background(ColorWarning).
		Bold(true)
}

// TitleStyle renders a bold section title in the primary color.
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
}

// GradientBar renders a proportional usage bar. The fill color shifts from
// success through warning to danger as the percentage grows.
func GradientBar(pct float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	color := ColorSuccess
	switch {
	case pct >= 75:
		color = ColorDanger
	case pct >= 40:
		color = ColorWarning
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(repeat("░", width-filled))
	return bar + rest
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
