package timesheet

import (
	"fmt"

	"github.com/Tiliavir/tsb/internal/model"
)

// Mode selects the variant of the timesheet.
type Mode int

const (
	// ModeTutor lets users add and delete their own unapproved records.
	ModeTutor Mode = iota
	// ModeAdmin lets an administrator approve another user's records.
	ModeAdmin
)

func (m Mode) String() string {
	if m == ModeAdmin {
		return "admin"
	}
	return "tutor"
}

// Action labels shown on record rows.
const (
	LabelDelete           = "Delete"
	LabelApprovedNoDelete = "Already approved - can't delete"
	LabelApprove          = "Approve"
	LabelApproved         = "Approved"
)

// ActionLabel returns the label of a row's action control.
func ActionLabel(mode Mode, approved bool) string {
	switch {
	case mode == ModeAdmin && approved:
		return LabelApproved
	case mode == ModeAdmin:
		return LabelApprove
	case approved:
		return LabelApprovedNoDelete
	default:
		return LabelDelete
	}
}

// actionEnabled reports whether the row's action does anything. Approved
// rows are terminal in both modes.
func actionEnabled(approved bool) bool {
	return !approved
}

// Template declares which record fields a row shows, in order.
type Template struct {
	Headers []string
	Columns []string
}

// DefaultTemplate mirrors the board's timesheet row.
var DefaultTemplate = Template{
	Headers: []string{"Date", "Start", "End", "Type", "Notes"},
	Columns: []string{model.FieldStartDate, model.FieldStart, model.FieldEnd, model.FieldTaskTypeDesc, model.FieldNotes},
}

// RowKind distinguishes the rows of a rendered timesheet.
type RowKind int

const (
	RowRecord RowKind = iota
	RowSummary
	RowHeader
)

// Row is one rendered line of the timesheet.
type Row struct {
	Kind RowKind
	// ID is the record identifier; zero for summary and header rows.
	ID   int64
	Week model.Week
	// Cells holds bound values for record rows, labels for header rows and
	// the summary text for summary rows.
	Cells         []string
	Approved      bool
	Action        string
	ActionEnabled bool
}

// CellText implements sortable.Row.
func (r Row) CellText(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}

// HasHeaderCells implements sortable.Row.
func (r Row) HasHeaderCells() bool {
	return r.Kind == RowHeader
}

// Text is the summary line of a summary row.
func (r Row) Text() string {
	return r.CellText(0)
}

// HeaderRow returns the column heading row for tmpl.
func HeaderRow(tmpl Template) Row {
	return Row{Kind: RowHeader, Cells: append([]string(nil), tmpl.Headers...)}
}

// SummaryText formats the week total line.
func SummaryText(week model.Week, hours model.Hours) string {
	return fmt.Sprintf("Sum for week %s: %sh", week, hours)
}

// Render turns a record list into rows. Records keep the server's order; a
// summary row precedes the first record and every record whose week
// differs from the one before it. The first record always gets one, even
// in week "00", since there is no previous week to match.
func Render(list model.RecordList, mode Mode, tmpl Template) []Row {
	rows := make([]Row, 0, len(list.Records)+len(list.Aggregates))
	var curWeek model.Week
	for i, rec := range list.Records {
		if i == 0 || rec.Week != curWeek {
			hours, ok := list.Aggregate(rec.Week)
			if !ok {
				hours = "?"
			}
			rows = append(rows, Row{
				Kind:  RowSummary,
				Week:  rec.Week,
				Cells: []string{SummaryText(rec.Week, hours)},
			})
		}
		rows = append(rows, recordRow(rec, mode, tmpl))
		curWeek = rec.Week
	}
	return rows
}

func recordRow(rec model.Record, mode Mode, tmpl Template) Row {
	cells := make([]string, len(tmpl.Columns))
	for i, field := range tmpl.Columns {
		cells[i] = rec.Field(field)
	}
	approved := bool(rec.Approved)
	return Row{
		Kind:          RowRecord,
		ID:            rec.ID,
		Week:          rec.Week,
		Cells:         cells,
		Approved:      approved,
		Action:        ActionLabel(mode, approved),
		ActionEnabled: actionEnabled(approved),
	}
}
