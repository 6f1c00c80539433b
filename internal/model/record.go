package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single time record as served by the board's timesheet API.
// Start and End use the server format "YYYY-MM-DD HH:MM".
type Record struct {
	ID           int64  `json:"timerecord_id"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Week         Week   `json:"week"`
	TaskTypeID   string `json:"tasktype_id,omitempty"`
	TaskTypeDesc string `json:"tasktype_desc"`
	Notes        string `json:"notes"`
	Approved     Flag   `json:"approved"`
}

// RecordList is the payload returned by GET and successful POST on the API.
// A failed POST uses the same envelope with Type "error" and a Message.
type RecordList struct {
	Type       string           `json:"type"`
	Message    string           `json:"message,omitempty"`
	Records    []Record         `json:"records"`
	Aggregates map[string]Hours `json:"aggregates"`
}

// IsError reports whether the envelope carries an application error.
func (l RecordList) IsError() bool {
	return l.Type == "error"
}

// Aggregate returns the server supplied total for week w. Keys are matched
// verbatim first and then numerically, so "07" and 7 address the same week.
func (l RecordList) Aggregate(w Week) (Hours, bool) {
	if h, ok := l.Aggregates[string(w)]; ok {
		return h, true
	}
	n, ok := w.Number()
	if !ok {
		return "", false
	}
	for k, h := range l.Aggregates {
		if kn, ok := Week(k).Number(); ok && kn == n {
			return h, true
		}
	}
	return "", false
}

// NewRecord is the body of an add request.
type NewRecord struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Notes      string `json:"notes"`
	TaskTypeID string `json:"tasktype_id"`
}

// Approval is the body of an approve request.
type Approval struct {
	Approved bool `json:"approved"`
}

// Week is the week key of a record. The board sends strftime("%W") strings;
// plain numbers are accepted as well.
type Week string

func (w *Week) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("week: %w", err)
	}
	*w = Week(s)
	return nil
}

// Number returns the numeric value of the week key.
func (w Week) Number() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(w)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Hours is a server formatted duration such as "12:30".
type Hours string

func (h *Hours) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("hours: %w", err)
	}
	*h = Hours(s)
	return nil
}

// Flag is a boolean that also decodes the 0/1 integers the board emits.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true", "1", `"1"`:
		*f = true
	case "false", "0", `"0"`, "null", `""`:
		*f = false
	default:
		return fmt.Errorf("approved: unexpected value %s", data)
	}
	return nil
}

// scalarString decodes a JSON string or number into its textual form.
func scalarString(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", data)
	}
	return n.String(), nil
}
