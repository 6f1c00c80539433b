package model

import (
	"strconv"

	"github.com/Tiliavir/tsb/internal/timecalc"
)

// Field names understood by Record.Field. Row templates refer to them.
const (
	FieldID           = "timerecord_id"
	FieldStartDate    = "start_date"
	FieldStart        = "start"
	FieldEnd          = "end"
	FieldWeek         = "week"
	FieldNotes        = "notes"
	FieldTaskTypeID   = "tasktype_id"
	FieldTaskTypeDesc = "tasktype_desc"
	FieldApproved     = "approved"
)

// Field returns the display value bound to name. Start and end are shown
// as clock times with the date split out into start_date. Unknown names
// yield "".
func (r Record) Field(name string) string {
	switch name {
	case FieldID:
		return strconv.FormatInt(r.ID, 10)
	case FieldStartDate:
		date, _ := timecalc.SplitStamp(r.Start)
		return date
	case FieldStart:
		_, clock := timecalc.SplitStamp(r.Start)
		return clock
	case FieldEnd:
		_, clock := timecalc.SplitStamp(r.End)
		return clock
	case FieldWeek:
		return string(r.Week)
	case FieldNotes:
		return r.Notes
	case FieldTaskTypeID:
		return r.TaskTypeID
	case FieldTaskTypeDesc:
		return r.TaskTypeDesc
	case FieldApproved:
		if r.Approved {
			return "1"
		}
		return "0"
	}
	return ""
}
