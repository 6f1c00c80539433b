package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/tsb/internal/timecalc"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

const (
	fieldDate = iota
	fieldStart
	fieldEnd
	fieldType
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Date", "Start", "End", "Type", "Notes"}

// addForm is the new record row of the timesheet.
type addForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newAddForm() *addForm {
	f := &addForm{}
	placeholders := [fieldCount]string{timecalc.Today(time.Now()), "HH:MM", "HH:MM", "task type id", "what was done"}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.Width = 16
		if i == fieldNotes {
			in.Width = 40
		}
		f.inputs[i] = in
	}
	f.inputs[fieldDate].SetValue(timecalc.Today(time.Now()))
	f.inputs[fieldStart].Focus()
	f.focus = fieldStart
	return f
}

func (f *addForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *addForm) draft() timesheet.Draft {
	v := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }
	return timesheet.Draft{
		Date:       v(fieldDate),
		Start:      v(fieldStart),
		End:        v(fieldEnd),
		Notes:      v(fieldNotes),
		TaskTypeID: v(fieldType),
	}
}

func (f *addForm) view() string {
	var b strings.Builder
	b.WriteString(headerCellStyle.Render("New record"))
	for i, in := range f.inputs {
		b.WriteString("\n")
		label := fieldLabels[i] + ":"
		if i == f.focus {
			label = navSelectedStyle.Render(label)
		}
		b.WriteString(label + strings.Repeat(" ", 7-len(fieldLabels[i])) + in.View())
	}
	return b.String()
}

func (m appModel) updateFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter":
		d := m.form.draft()
		view, ctx := m.view, m.ctx
		m.status = "Adding…"
		return m, func() tea.Msg {
			return loadedMsg{op: "add", err: view.Add(ctx, d)}
		}
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}
