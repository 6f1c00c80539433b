package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/Tiliavir/tsb/internal/api"
	"github.com/Tiliavir/tsb/internal/model"
	"github.com/Tiliavir/tsb/internal/timecalc"
)

var (
	// ErrWrongMode is returned for actions the view's mode does not offer.
	ErrWrongMode = errors.New("action not available in this mode")
	// ErrNotFound is returned when no displayed row has the given id.
	ErrNotFound = errors.New("record not shown")
	// ErrApproved is returned when deleting an approved record.
	ErrApproved = errors.New("already approved - can't delete")
	// ErrAlreadyApproved is returned when approving an approved record.
	ErrAlreadyApproved = errors.New("record is already approved")
	// ErrApprovalFailed is returned when the board rejects an approval.
	ErrApprovalFailed = errors.New("server error on approval")
)

// ApprovalAlert is the message front ends show when ErrApprovalFailed occurs.
const ApprovalAlert = "Server Error on approval!"

// Service is the board API as used by the view.
type Service interface {
	List(ctx context.Context) (model.RecordList, error)
	Add(ctx context.Context, rec model.NewRecord) (model.RecordList, error)
	Delete(ctx context.Context, id int64) error
	SetApproved(ctx context.Context, id int64, approved bool) error
}

// Draft is the content of the add form.
type Draft struct {
	Date       string
	Start      string
	End        string
	Notes      string
	TaskTypeID string
}

// Record converts the draft into the add request body. Start and end are
// both anchored on the draft's date.
func (d Draft) Record() model.NewRecord {
	return model.NewRecord{
		Start:      timecalc.JoinStamp(d.Date, d.Start),
		End:        timecalc.JoinStamp(d.Date, d.End),
		Notes:      d.Notes,
		TaskTypeID: d.TaskTypeID,
	}
}

// Option configures a View.
type Option func(*View)

// WithTemplate replaces DefaultTemplate.
func WithTemplate(tmpl Template) Option {
	return func(v *View) { v.tmpl = tmpl }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(v *View) { v.logger = l }
}

// View keeps the rendered timesheet in step with the board. Rows always
// reflect the last successful load or mutation. A View is safe for
// concurrent use; concurrent requests are not ordered and the last
// response to arrive wins.
type View struct {
	svc    Service
	mode   Mode
	tmpl   Template
	logger *log.Logger

	mu     sync.Mutex
	rows   []Row
	banner string
	gen    int
}

// NewView returns an empty view. Call Load to fill it.
func NewView(svc Service, mode Mode, opts ...Option) *View {
	v := &View{svc: svc, mode: mode, tmpl: DefaultTemplate}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mode returns the view's mode.
func (v *View) Mode() Mode { return v.mode }

// Template returns the row template.
func (v *View) Template() Template { return v.tmpl }

// Rows returns a copy of the rendered rows.
func (v *View) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.rows)
}

// Row returns the record row with the given id.
func (v *View) Row(id int64) (Row, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.indexLocked(id)
	if i < 0 {
		return Row{}, false
	}
	return v.rows[i], true
}

// Banner returns the error banner text, or "" when hidden.
func (v *View) Banner() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.banner
}

// Generation counts full re-renders. Front ends use it to drop transient
// state such as a client-side sort order.
func (v *View) Generation() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// Load fetches all records and replaces the rows.
func (v *View) Load(ctx context.Context) error {
	list, err := v.svc.List(ctx)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	v.fill(list)
	return nil
}

// Add submits a new record. On success the banner is cleared and the rows
// are rebuilt from the response. A rejection by the board shows its
// message in the banner and leaves the rows untouched.
func (v *View) Add(ctx context.Context, d Draft) error {
	if v.mode != ModeTutor {
		return ErrWrongMode
	}
	list, err := v.svc.Add(ctx, d.Record())
	var se *api.ServerError
	if errors.As(err, &se) {
		v.mu.Lock()
		v.banner = se.Error()
		v.mu.Unlock()
		return err
	}
	if err != nil {
		return fmt.Errorf("adding record: %w", err)
	}
	v.mu.Lock()
	v.banner = ""
	v.mu.Unlock()
	v.fill(list)
	return nil
}

// Delete removes an unapproved record. Once the board has answered, the
// row is dropped without reloading; an error status is still returned so
// callers can report it.
func (v *View) Delete(ctx context.Context, id int64) error {
	if v.mode != ModeTutor {
		return ErrWrongMode
	}
	row, ok := v.Row(id)
	if !ok {
		return ErrNotFound
	}
	if row.Approved {
		return ErrApproved
	}

	err := v.svc.Delete(ctx, id)
	if err != nil && !api.IsStatus(err) {
		return fmt.Errorf("deleting record %d: %w", id, err)
	}
	v.mu.Lock()
	if i := v.indexLocked(id); i >= 0 {
		v.rows = slices.Delete(v.rows, i, i+1)
	}
	v.mu.Unlock()
	if err != nil {
		v.logf("record %d removed, board answered: %v", id, err)
		return fmt.Errorf("deleting record %d: %w", id, err)
	}
	return nil
}

// Approve marks a record approved. On success the row flips to approved
// exactly once; on failure nothing changes and ErrApprovalFailed is returned.
func (v *View) Approve(ctx context.Context, id int64) error {
	if v.mode != ModeAdmin {
		return ErrWrongMode
	}
	row, ok := v.Row(id)
	if !ok {
		return ErrNotFound
	}
	if row.Approved {
		return ErrAlreadyApproved
	}

	if err := v.svc.SetApproved(ctx, id, !row.Approved); err != nil {
		v.logf("approving record %d: %v", id, err)
		return fmt.Errorf("%w: %w", ErrApprovalFailed, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexLocked(id); i >= 0 && !v.rows[i].Approved {
		v.rows[i].Approved = true
		v.rows[i].Action = ActionLabel(v.mode, true)
		v.rows[i].ActionEnabled = actionEnabled(true)
	}
	return nil
}

func (v *View) fill(list model.RecordList) {
	rows := Render(list, v.mode, v.tmpl)
	v.mu.Lock()
	v.rows = rows
	v.gen++
	v.mu.Unlock()
	v.logf("rendered %d records as %d rows", len(list.Records), len(rows))
}

func (v *View) indexLocked(id int64) int {
	return slices.IndexFunc(v.rows, func(r Row) bool {
		return r.Kind == RowRecord && r.ID == id
	})
}

func (v *View) logf(format string, args ...any) {
	if v.logger != nil {
		v.logger.Printf(format, args...)
	}
}
