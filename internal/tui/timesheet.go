package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/sortable"
	"github.com/Tiliavir/tsb/internal/timesheet"
)

// syncTable brings the displayed table in line with the view. A full
// re-render resets the sort order; row patches keep it.
func (m *appModel) syncTable() {
	rows := m.view.Rows()
	if gen := m.view.Generation(); m.table == nil || gen != m.gen {
		m.gen = gen
		all := append([]timesheet.Row{timesheet.HeaderRow(m.view.Template())}, rows...)
		m.table = sortable.New(all, m.sortOpts...)
		m.clampCursor()
		return
	}

	byID := make(map[int64]timesheet.Row, len(rows))
	for _, r := range rows {
		if r.Kind == timesheet.RowRecord {
			byID[r.ID] = r
		}
	}
	cur := m.table.Rows()
	next := make([]timesheet.Row, 0, len(cur))
	for _, r := range cur {
		if r.Kind != timesheet.RowRecord {
			next = append(next, r)
			continue
		}
		if updated, ok := byID[r.ID]; ok {
			next = append(next, updated)
		}
	}
	m.table.SetRows(next)
	m.clampCursor()
}

// recordIndexes returns the table positions of record rows.
func (m appModel) recordIndexes() []int {
	var idx []int
	for i, r := range m.table.Rows() {
		if r.Kind == timesheet.RowRecord {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m *appModel) clampCursor() {
	n := len(m.recordIndexes())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the record row under the cursor.
func (m appModel) selected() (timesheet.Row, bool) {
	idx := m.recordIndexes()
	if len(idx) == 0 || m.cursor >= len(idx) {
		return timesheet.Row{}, false
	}
	return m.table.Rows()[idx[m.cursor]], true
}

func (m *appModel) handleMutation(msg mutatedMsg) {
	if msg.err != nil && m.logger != nil {
		m.logger.Printf("%s record %d: %v", msg.op, msg.id, msg.err)
	}
	switch {
	case msg.err == nil && msg.op == "delete":
		m.status = fmt.Sprintf("Deleted record %d.", msg.id)
	case msg.err == nil:
		m.status = fmt.Sprintf("Record %d approved.", msg.id)
	case errors.Is(msg.err, timesheet.ErrApprovalFailed):
		m.alert = timesheet.ApprovalAlert
		m.status = ""
	case api.IsStatus(msg.err):
		m.status = fmt.Sprintf("Record %d removed; board answered: %v", msg.id, msg.err)
	default:
		m.status = fmt.Sprintf("%s %d: %v", msg.op, msg.id, msg.err)
	}
}

func (m appModel) updateTimesheetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "n":
		m.nav.toggle()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.recordIndexes())-1 {
			m.cursor++
		}
		return m, nil
	case "r":
		m.loading = true
		m.status = "Loading…"
		return m, m.loadCmd("reload")
	case "a":
		if m.view.Mode() != timesheet.ModeTutor {
			m.status = "Records cannot be added in admin mode."
			return m, nil
		}
		m.form = newAddForm()
		return m, nil
	case "d":
		return m.actOnSelected("delete")
	case "enter", "p":
		return m.actOnSelected("approve")
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.view.Template().Columns) {
		m.table.Click(n - 1)
		return m, nil
	}
	return m, nil
}

// actOnSelected runs the row action matching op if the mode offers it.
func (m appModel) actOnSelected(op string) (tea.Model, tea.Cmd) {
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	mode := m.view.Mode()
	if (op == "delete") != (mode == timesheet.ModeTutor) {
		return m, nil
	}
	if !row.ActionEnabled {
		m.status = row.Action
		return m, nil
	}

	view, ctx, id := m.view, m.ctx, row.ID
	m.status = fmt.Sprintf("%s record %d…", op, id)
	return m, func() tea.Msg {
		var err error
		if op == "delete" {
			err = view.Delete(ctx, id)
		} else {
			err = view.Approve(ctx, id)
		}
		return mutatedMsg{op: op, id: id, err: err}
	}
}

func (m appModel) viewTimesheet() string {
	var b strings.Builder
	if banner := m.view.Banner(); banner != "" {
		b.WriteString(bannerStyle.Render(banner))
		b.WriteString("\n\n")
	}
	if m.form != nil {
		b.WriteString(m.form.view())
		b.WriteString("\n\n")
	}

	rows := m.table.Rows()
	if len(rows) <= 1 {
		if m.loading {
			b.WriteString("Loading…")
		} else {
			b.WriteString("No records.")
		}
		return b.String()
	}

	tmpl := m.view.Template()
	widths := make([]int, len(tmpl.Columns)+1)
	for _, r := range rows {
		if r.Kind == timesheet.RowSummary {
			continue
		}
		for i := range tmpl.Columns {
			widths[i] = max(widths[i], ansi.StringWidth(r.CellText(i)))
		}
		widths[len(tmpl.Columns)] = max(widths[len(tmpl.Columns)], ansi.StringWidth(r.Action))
	}
	sortCol, asc, sorted := m.table.Sorted()

	sel, hasSel := m.selected()
	for _, r := range rows {
		switch r.Kind {
		case timesheet.RowHeader:
			cells := make([]string, len(tmpl.Columns)+1)
			for i := range tmpl.Columns {
				label := fmt.Sprintf("%d %s", i+1, r.CellText(i))
				if sorted && i == sortCol {
					label += map[bool]string{true: " ▲", false: " ▼"}[asc]
				}
				cells[i] = label
				widths[i] = max(widths[i], ansi.StringWidth(label))
			}
			cells[len(tmpl.Columns)] = ""
			b.WriteString(headerCellStyle.Render(padCells(cells, widths)))
		case timesheet.RowSummary:
			b.WriteString(summaryStyle.Render(r.Text()))
		default:
			cells := append(append([]string{}, r.Cells...), "["+r.Action+"]")
			line := padCells(cells, widths)
			switch {
			case hasSel && r.ID == sel.ID:
				line = selectedStyle.Render(line)
			case r.Approved:
				line = approvedStyle.Render(line)
			}
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func padCells(cells []string, widths []int) string {
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(c)
		if i < len(widths) && i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", max(widths[i]-ansi.StringWidth(c), 0)))
		}
	}
	return sb.String()
}
