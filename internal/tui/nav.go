package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// navToggle shows or hides the navigation pane. It starts hidden.
type navToggle struct {
	visible bool
}

func (n *navToggle) toggle() {
	n.visible = !n.visible
}

var screenTitles = []string{
	screenTimesheet: "Timesheet",
	screenMarkdown:  "Task markdown",
}

func (n navToggle) view(current screen, height int) string {
	if !n.visible {
		return ""
	}
	var lines []string
	for i, title := range screenTitles {
		if screen(i) == current {
			lines = append(lines, navSelectedStyle.Render("▸ "+title))
			continue
		}
		lines = append(lines, "  "+title)
	}
	return navStyle.Height(max(height, len(lines))).Render(strings.Join(lines, "\n"))
}

func navWidth(n navToggle) int {
	if !n.visible {
		return 0
	}
	return lipgloss.Width(navStyle.Render("▸ Task markdown"))
}
