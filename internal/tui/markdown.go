package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/tsb/internal/preview"
)

func (m appModel) updateMarkdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, m.switchScreen()
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		m.preview.Input(after)
	}
	return m, cmd
}

func (m appModel) viewMarkdown() string {
	w := (m.width - navWidth(m.nav)) / 2
	text := preview.PlainText(m.previewHTML)
	if strings.TrimSpace(text) == "" {
		text = footerStyle.Render("(nothing to preview)")
	}
	pane := paneStyle.Width(max(w-4, 20)).Height(m.editor.Height()).Render(text)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.editor.View(), " ", pane)
}
